// Package mirror serves a read-only live view of the board over
// websockets.
//
// The event loop publishes a wire payload after every repaint; the
// mirror broadcasts it to every connected client and replays the most
// recent payload to clients that join late. Clients never write: the
// mirror is a projector, not a collaboration channel, and anything a
// client sends is discarded.
//
// With announcement enabled the mirror registers an mDNS service so
// tablets and phones on the local network can find it without typing
// an address.
package mirror
