package bot

import "github.com/google/uuid"

// Reply is the wire form of a Response sent by the network transports.
// Images are base64 encoded by encoding/json.
type Reply struct {
	RequestID    string    `json:"request_id"`
	Conversation string    `json:"conversation"`
	State        string    `json:"state"`
	Messages     []Message `json:"messages"`
}

func NewReply(conversation string, resp Response) Reply {
	msgs := resp.Messages
	if msgs == nil {
		msgs = []Message{}
	}
	return Reply{
		RequestID:    uuid.NewString(),
		Conversation: conversation,
		State:        resp.State.String(),
		Messages:     msgs,
	}
}

// FailureReply is sent when a message could not be processed at all.
func FailureReply(conversation string) Reply {
	return NewReply(conversation, Response{
		State:    MainMenu,
		Messages: []Message{{Text: failureText, Keyboard: mainMenuKeyboard}},
	})
}
