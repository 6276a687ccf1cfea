// Package board implements the digsite board engine: procedural bone
// placement, neighbor-count derivation, and fog-of-war reveal.
//
// A board is generated in one shot: bones are sampled without replacement
// from the cells outside the spawn exclusion zone, neighbor counts are
// derived for every empty cell, and the initial reveal flood-fills outward
// from the spawn point. Player actions never change cell content; they only
// move markers and, through Flood, extend visibility.
//
// Boards carry no locking. One board belongs to exactly one party, and the
// party serializes every mutation; see the game/party package.
package board
