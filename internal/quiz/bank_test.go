package quiz

import (
	stderrors "errors"
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mroshb/trivia_bot/pkg/errors"
)

func testEntries(n int) []Entry {
	entries := make([]Entry, n)
	for i := range entries {
		entries[i] = Entry{
			Prompt:       fmt.Sprintf("Question %d?", i),
			Options:      []string{"A", "B", "C", "D"},
			CorrectIndex: i % 4,
		}
	}
	return entries
}

func testBank(t *testing.T, n int) *Bank {
	t.Helper()
	bank, err := NewBank(testEntries(n))
	require.NoError(t, err)
	return bank
}

func TestNewBank_Validation(t *testing.T) {
	tests := []struct {
		name    string
		entry   Entry
		wantErr bool
	}{
		{
			name:  "Valid entry",
			entry: Entry{Prompt: "2+2?", Options: []string{"3", "4"}, CorrectIndex: 1},
		},
		{
			name:    "Empty prompt",
			entry:   Entry{Options: []string{"3", "4"}, CorrectIndex: 0},
			wantErr: true,
		},
		{
			name:    "Single option",
			entry:   Entry{Prompt: "2+2?", Options: []string{"4"}, CorrectIndex: 0},
			wantErr: true,
		},
		{
			name:    "Correct index past the end",
			entry:   Entry{Prompt: "2+2?", Options: []string{"3", "4"}, CorrectIndex: 2},
			wantErr: true,
		},
		{
			name:    "Negative correct index",
			entry:   Entry{Prompt: "2+2?", Options: []string{"3", "4"}, CorrectIndex: -1},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBank([]Entry{tt.entry})
			if tt.wantErr {
				assert.Equal(t, errors.ErrCodeValidation, errors.CodeOf(err))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestNewBank_CopiesOptions(t *testing.T) {
	entries := testEntries(1)
	bank, err := NewBank(entries)
	require.NoError(t, err)

	entries[0].Options[0] = "mutated"
	assert.Equal(t, "A", bank.Entry(0).Options[0])
}

func TestBank_SampleDistinct(t *testing.T) {
	bank := testBank(t, 40)
	rng := rand.New(rand.NewPCG(1, 2))

	order, err := bank.Sample(30, rng)
	require.NoError(t, err)
	assert.Len(t, order, 30)

	seen := make(map[int]bool)
	for _, idx := range order {
		assert.False(t, seen[idx], "duplicate index %d", idx)
		assert.True(t, idx >= 0 && idx < bank.Size(), "index %d out of range", idx)
		seen[idx] = true
	}
}

func TestBank_SampleDeterministicWithSeed(t *testing.T) {
	bank := testBank(t, 40)

	a, err := bank.Sample(10, rand.New(rand.NewPCG(7, 7)))
	require.NoError(t, err)
	b, err := bank.Sample(10, rand.New(rand.NewPCG(7, 7)))
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestBank_SampleWholeCatalog(t *testing.T) {
	bank := testBank(t, 5)

	order, err := bank.Sample(5, rand.New(rand.NewPCG(3, 4)))
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{0, 1, 2, 3, 4}, order)
}

func TestBank_SampleInsufficient(t *testing.T) {
	bank := testBank(t, 5)

	_, err := bank.Sample(6, rand.New(rand.NewPCG(1, 1)))
	assert.True(t, stderrors.Is(err, errors.ErrInsufficientQuestions))
	assert.True(t, stderrors.Is(bank.EnsureCapacity(30), errors.ErrInsufficientQuestions))
	assert.NoError(t, bank.EnsureCapacity(5))
}
