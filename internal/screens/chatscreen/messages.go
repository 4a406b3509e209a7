package chatscreen

import "github.com/edumind/edumind/internal/chat"

// answerReadyMsg is sent when the tutor's reply has been generated.
type answerReadyMsg struct {
	User  chat.Message
	Model chat.Message
	Err   error
}

// attachmentLoadedMsg is sent when an attachment file has been read.
type attachmentLoadedMsg struct {
	Name string
	MIME string
	Data []byte
	Err  error
}
