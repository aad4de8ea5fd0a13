package model

import "errors"

// ErrInvalidDimension indicates a board with a non-positive length or breadth,
// or one with more than MaxBoardCells cells.
var ErrInvalidDimension = errors.New("board length and breadth must be positive and bounded")

// ErrWormholeOutOfBounds indicates a wormhole endpoint outside 1..Size.
var ErrWormholeOutOfBounds = errors.New("wormhole position out of bound")

// ErrDuplicateWormholeStart indicates a second wormhole leaving the same cell.
var ErrDuplicateWormholeStart = errors.New("multiple wormholes from position")

// ErrOverlappingWormholeEnd indicates a second wormhole arriving at the same cell.
var ErrOverlappingWormholeEnd = errors.New("wormholes overlapping at end position")

// ErrBoardLocked indicates a wormhole mutation after the board was locked.
var ErrBoardLocked = errors.New("cannot add wormholes anymore, board is locked")

// ErrNoPlayers indicates a game created without any player.
var ErrNoPlayers = errors.New("at least one player must be provided")

// ErrGameFinished indicates a turn was requested after every player finished.
var ErrGameFinished = errors.New("game is finished")

// ErrUnknownRank indicates a winner lookup for a rank nobody holds yet.
var ErrUnknownRank = errors.New("no player finished at that rank")
