package tui

import "github.com/Veraticus/penny/internal/dialogue"

// replyMsg carries the engine's answer to a submitted line.
type replyMsg struct {
	reply dialogue.Reply
}

// speaker identifies who wrote a transcript entry.
type speaker int

const (
	speakerUser speaker = iota
	speakerBot
)

// entry is one line of the chat transcript.
type entry struct {
	text string
	from speaker
}
