/*
Package projector derives the widget snapshot for passive display
surfaces.

The projection is pure read: next pending item (earliest window end,
deterministic tie-breaks), an urgency tier from minutes remaining, and
a short time-until string. No persisted state beyond a cached last
snapshot, so surfaces may poll at any frequency.
*/
package projector
