// Package notes splits a line of note text into words and resolves the words
// that name other notes.
//
// A line is segmented by an injected Segmenter, each token is classified as a
// Link or a Normal word against an Index of note stems, and every word carries
// a half-open Range counted in runes. FindAt answers which word, if any,
// covers a cursor offset.
package notes
