// Package test contains helpers shared by the tests of rowproject packages.
package test

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"
	"github.com/segmentio/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Turn is the sub-record layout of the conversation columns of the chatbot
// arena datasets.
type Turn struct {
	Content string `parquet:"content"`
	Role    string `parquet:"role"`
}

// Conversation is a row of a chatbot arena dataset, reduced to the columns
// used in tests.
type Conversation struct {
	QuestionID    string `parquet:"question_id"`
	ConversationA []Turn `parquet:"conversation_a"`
	ConversationB []Turn `parquet:"conversation_b"`
}

// Dialogue builds a conversation whose B side alternates user and assistant
// turns with the given contents.
func Dialogue(id string, contents ...string) Conversation {
	turns := make([]Turn, len(contents))
	for i, content := range contents {
		role := "user"
		if i%2 == 1 {
			role = "assistant"
		}
		turns[i] = Turn{Content: content, Role: role}
	}
	return Conversation{
		QuestionID:    id,
		ConversationA: turns,
		ConversationB: turns,
	}
}

// ListConversation holds the same columns as Conversation, with the turns
// written as standard three-level LIST groups. This is the layout pyarrow
// produces for list<struct<content, role>> columns.
type ListConversation struct {
	QuestionID    string `parquet:"question_id"`
	ConversationA []Turn `parquet:"conversation_a,list"`
	ConversationB []Turn `parquet:"conversation_b,list"`
}

// Lists converts rows to their LIST layout.
func Lists(rows ...Conversation) []ListConversation {
	lists := make([]ListConversation, len(rows))
	for i, row := range rows {
		lists[i] = ListConversation{
			QuestionID:    row.QuestionID,
			ConversationA: row.ConversationA,
			ConversationB: row.ConversationB,
		}
	}
	return lists
}

// TaggedTurn is a turn carrying a MAP of string metadata.
type TaggedTurn struct {
	Content string            `parquet:"content"`
	Role    string            `parquet:"role"`
	Meta    map[string]string `parquet:"meta"`
}

// TaggedConversation is a row whose LIST of turns carries MAP fields.
type TaggedConversation struct {
	QuestionID    string       `parquet:"question_id"`
	ConversationB []TaggedTurn `parquet:"conversation_b,list"`
}

func Close(t *testing.T, c io.Closer) {
	assert.NoError(t, c.Close())
}

// WithTestDir runs f with a temporary directory which is removed when the
// test completes, unless it failed.
func WithTestDir(t *testing.T, f func(dir string)) {
	dir, err := os.MkdirTemp("", "rowproject-")
	require.NoError(t, err)
	defer func() {
		if r := recover(); r != nil {
			t.Log("Test directory available at", dir)
			panic(r)
		} else if t.Failed() {
			t.Log("Test directory available at", dir)
		} else {
			os.RemoveAll(dir)
		}
	}()

	f(dir)
}

// Encode returns the content of a parquet file holding rows.
func Encode[T any](t *testing.T, rows []T, options ...parquet.WriterOption) []byte {
	buf := new(bytes.Buffer)
	w := parquet.NewGenericWriter[T](buf, options...)
	_, err := w.Write(rows)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

// WriteFile writes rows to a parquet file named name in dir and returns its
// path.
func WriteFile[T any](t *testing.T, dir, name string, rows []T, options ...parquet.WriterOption) string {
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, Encode(t, rows, options...), 0644))
	return path
}

// Diff returns a unified diff between want and got, or "" if they are equal.
func Diff(want, got string) string {
	if want == got {
		return ""
	}
	edits := myers.ComputeEdits(span.URIFromPath("want"), want, got)
	return fmt.Sprint(gotextdiff.ToUnified("want", "got", want, edits))
}

// AssertText fails the test with a unified diff if got differs from want.
func AssertText(t *testing.T, want, got string) {
	t.Helper()
	if diff := Diff(want, got); diff != "" {
		t.Errorf("content mismatch:\n%s", diff)
	}
}

// Entries returns the names of the files in dir.
func Entries(t *testing.T, dir string) []string {
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, len(entries))
	for i, entry := range entries {
		names[i] = entry.Name()
	}
	return names
}
