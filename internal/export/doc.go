// Package export renders boards to PNG images and PDF documents.
//
// Exports are framed to the board content: the bounding box of every
// arrow and symbol, plus padding. An empty board has nothing to frame
// and exporting it returns ErrEmptyBoard.
package export
