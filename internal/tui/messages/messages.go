package messages

// ConfirmationResultMsg is sent when the user answers the create-file prompt
type ConfirmationResultMsg struct {
	Confirmed bool
}

// JumpToHeadingMsg asks the editor to move below the heading on Line
type JumpToHeadingMsg struct {
	Label string
	Line  int
}

// ClosePickerMsg dismisses the heading picker without moving
type ClosePickerMsg struct{}
