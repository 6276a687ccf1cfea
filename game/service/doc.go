// Package service implements the game session controller. It sits between
// the transport (which supplies authenticated room and player identifiers)
// and the party registry plus board engine, turning inbound player intents
// into guarded board mutations and outbound room broadcasts.
//
// Error discipline:
//
// Unrecognized move tokens are dropped silently. A missing party or board on
// an event that presupposes one (move, new-game) is a protocol-ordering
// violation and is returned to the transport, which terminates the offending
// connection. Board generation failures are fatal for the whole room: its
// participants are forcibly disconnected and the party is deleted, leaving
// other rooms untouched.
package service
