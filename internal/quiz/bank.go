package quiz

import (
	"fmt"
	"math/rand/v2"

	"github.com/mroshb/trivia_bot/pkg/errors"
)

// Entry is one trivia item. It is never modified after the bank is built.
type Entry struct {
	Prompt       string
	Category     string
	Options      []string
	CorrectIndex int
}

// CorrectOption returns the label of the right answer.
func (e Entry) CorrectOption() string {
	return e.Options[e.CorrectIndex]
}

func (e Entry) validate() error {
	if e.Prompt == "" {
		return errors.New(errors.ErrCodeValidation, "empty prompt")
	}
	if len(e.Options) < 2 {
		return errors.New(errors.ErrCodeValidation, fmt.Sprintf("need at least 2 options, got %d", len(e.Options)))
	}
	if e.CorrectIndex < 0 || e.CorrectIndex >= len(e.Options) {
		return errors.New(errors.ErrCodeValidation, fmt.Sprintf("correct index %d out of range [0,%d)", e.CorrectIndex, len(e.Options)))
	}
	return nil
}

// Bank is an ordered, read-only question catalog.
type Bank struct {
	entries []Entry
}

// NewBank validates and copies entries. A single invalid entry rejects the bank.
func NewBank(entries []Entry) (*Bank, error) {
	copied := make([]Entry, len(entries))
	for i, e := range entries {
		if err := e.validate(); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		e.Options = append([]string(nil), e.Options...)
		copied[i] = e
	}
	return &Bank{entries: copied}, nil
}

func (b *Bank) Size() int {
	return len(b.entries)
}

func (b *Bank) Entry(i int) Entry {
	return b.entries[i]
}

// EnsureCapacity fails with INSUFFICIENT_QUESTIONS when the catalog cannot fill
// rounds distinct questions.
func (b *Bank) EnsureCapacity(rounds int) error {
	if rounds > len(b.entries) {
		return errors.New(errors.ErrCodeInsufficientQuestions,
			fmt.Sprintf("bank holds %d questions, %d rounds configured", len(b.entries), rounds))
	}
	return nil
}

// Sample draws count distinct entry indices uniformly without replacement.
// rng is not safe for concurrent use; callers serialize access to it.
func (b *Bank) Sample(count int, rng *rand.Rand) ([]int, error) {
	if count < 0 {
		return nil, errors.New(errors.ErrCodeValidation, "negative sample size")
	}
	if err := b.EnsureCapacity(count); err != nil {
		return nil, err
	}
	return rng.Perm(len(b.entries))[:count], nil
}
