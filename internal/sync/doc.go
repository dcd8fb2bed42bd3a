// Package sync implements the peer-to-peer state exchange core: the codec
// that turns a full items+preferences snapshot into a URL-safe token and
// back, and the resolver that folds a decoded snapshot into local state.
//
// There is no backend between the two households. One side encodes its
// snapshot into a token, embeds it in a share link, and the other side
// decodes it and merges after explicit confirmation.
package sync
