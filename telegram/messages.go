package telegram

// Buttons
const (
	BtnJoin = "🙋 Join"
)

// Messages
const (
	MsgHelp = "🧠 <b>Trivia Quiz</b>\n\n" +
		"/quiz - open a lobby in this chat\n" +
		"/score - show the standings of the running quiz\n" +
		"/help - show this message\n\n" +
		"Press <b>Join</b> before the lobby closes, then tap an option as fast as you can."
	MsgSlowDown = "🐢 Slow down! Try again in a moment."
)
