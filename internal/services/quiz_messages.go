package services

import (
	"fmt"
	"strings"

	"github.com/mroshb/trivia_bot/internal/quiz"
	"github.com/mroshb/trivia_bot/internal/security"
)

const (
	unknownPlayer = "Unknown player"

	msgLobbyOpen      = "🎮 <b>Quiz time!</b>\nPress the button below to join. The game starts in %d seconds."
	msgLobbyPlayers   = "\n\n👥 <b>Players (%d):</b>\n"
	msgLobbyCancelled = "⏹️ Nobody joined. The quiz is cancelled."
	msgQuizStarting   = "🚀 The quiz is starting! %d questions in total."
	msgQuestion       = "❓ <b>Question %d of %d</b>\n\n%s"
	msgCorrect        = "🎯 %s gets 1 point!"
	msgIncorrect      = "🙈 %s got it wrong."
	msgTimeUpNobody   = "⏰ Time is up! Nobody answered."
	msgTimeUp         = "⏰ Time is up!"
	msgAllAnswered    = "📋 Everyone has answered."
	msgCorrectAnswer  = "\n✅ Correct answer: <b>%s</b>"
	msgScored         = "\n🎯 Scored: %s"
	msgNobodyScored   = "\n🙈 Nobody got it right."
	msgQuizFinished   = "🏁 <b>The quiz is over!</b>"
	msgNoWinners      = "\n\nNobody scored a single point."
	msgWinners        = "\n\n🏆 <b>Winners:</b>\n"
	msgStandings      = "\n📊 <b>Standings:</b>\n"
	msgStandingsTitle = "📊 <b>Question %d of %d</b>\n"
	msgStandingsLobby = "⏳ The lobby is open. %d player(s) joined so far."
)

func lobbyText(windowSeconds int, names []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, msgLobbyOpen, windowSeconds)
	if len(names) > 0 {
		fmt.Fprintf(&b, msgLobbyPlayers, len(names))
		for i, name := range names {
			fmt.Fprintf(&b, "%d. %s\n", i+1, name)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func questionText(round *quiz.Round) string {
	return fmt.Sprintf(msgQuestion, round.Cursor+1, round.Total, security.SanitizeHTML(round.Entry.Prompt))
}

func pointsLabel(score int) string {
	if score == 1 {
		return "1 point"
	}
	return fmt.Sprintf("%d points", score)
}

func standingLines(b *strings.Builder, standings []quiz.Standing, names map[int64]string) {
	for i, s := range standings {
		fmt.Fprintf(b, "%d. %s: %s\n", i+1, names[s.PlayerID], pointsLabel(s.Score))
	}
}
