package rowproject_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/segmentio/encoding/json"
	"github.com/segmentio/rowproject"
	"github.com/segmentio/rowproject/compress"
	"github.com/segmentio/rowproject/internal/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stringPairs struct {
	ConversationB []string `parquet:"conversation_b"`
}

func project(ctx context.Context, input, output string, options ...rowproject.Option) (rowproject.Stats, error) {
	return rowproject.Project(ctx, append([]rowproject.Option{
		rowproject.InputPath(input),
		rowproject.OutputPath(output),
	}, options...)...)
}

func readFile(t *testing.T, path string) string {
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func TestProjectExample(t *testing.T) {
	for _, streaming := range []bool{false, true} {
		t.Run(fmt.Sprintf("streaming=%t", streaming), func(t *testing.T) {
			test.WithTestDir(t, func(dir string) {
				input := test.WriteFile(t, dir, "input.parquet", []stringPairs{
					{ConversationB: []string{"A", "B"}},
					{ConversationB: []string{"C", "D"}},
				})
				output := filepath.Join(dir, "train.json")

				stats, err := project(context.Background(), input, output, rowproject.Streaming(streaming))
				require.NoError(t, err)

				test.AssertText(t, `["A", "B", "C", "D"]`, readFile(t, output))
				assert.Equal(t, rowproject.Stats{Rows: 2, Records: 4, Bytes: 20}, stats)
			})
		})
	}
}

func TestProjectConversations(t *testing.T) {
	rows := []test.Conversation{
		test.Dialogue("q1", "What is parquet?", "A columnar file format."),
		test.Dialogue("q2", "Say \"hi\" in French", "Salut, ça va ?", "merci"),
		test.Dialogue("q3", "<script>", "&amp;"),
	}

	test.WithTestDir(t, func(dir string) {
		input := test.WriteFile(t, dir, "arena.parquet", rows)
		output := filepath.Join(dir, "train.json")

		stats, err := project(context.Background(), input, output)
		require.NoError(t, err)
		assert.Equal(t, int64(len(rows)), stats.Rows)
		assert.Equal(t, int64(2*len(rows)), stats.Records)

		const want = `[{"content": "What is parquet?", "role": "user"}, ` +
			`{"content": "A columnar file format.", "role": "assistant"}, ` +
			`{"content": "Say \"hi\" in French", "role": "user"}, ` +
			`{"content": "Salut, \u00e7a va ?", "role": "assistant"}, ` +
			`{"content": "<script>", "role": "user"}, ` +
			`{"content": "&amp;", "role": "assistant"}]`
		test.AssertText(t, want, readFile(t, output))

		var turns []test.Turn
		require.NoError(t, json.Unmarshal([]byte(readFile(t, output)), &turns))
		require.Len(t, turns, 2*len(rows))
		for i, row := range rows {
			assert.Equal(t, row.ConversationB[0], turns[2*i])
			assert.Equal(t, row.ConversationB[1], turns[2*i+1])
		}
	})
}

func TestProjectUTF8(t *testing.T) {
	test.WithTestDir(t, func(dir string) {
		input := test.WriteFile(t, dir, "input.parquet", []stringPairs{
			{ConversationB: []string{"ça", "日本"}},
		})
		output := filepath.Join(dir, "train.json")

		_, err := project(context.Background(), input, output, rowproject.EscapeASCII(false))
		require.NoError(t, err)
		test.AssertText(t, `["ça", "日本"]`, readFile(t, output))
	})
}

func TestProjectTurns(t *testing.T) {
	test.WithTestDir(t, func(dir string) {
		input := test.WriteFile(t, dir, "input.parquet", []stringPairs{
			{ConversationB: []string{"A", "B", "C"}},
			{ConversationB: []string{"D", "E", "F", "G"}},
		})
		output := filepath.Join(dir, "train.json")

		_, err := project(context.Background(), input, output, rowproject.Turns(3))
		require.NoError(t, err)
		test.AssertText(t, `["A", "B", "C", "D", "E", "F"]`, readFile(t, output))
	})
}

func TestProjectIdempotent(t *testing.T) {
	rows := make([]test.Conversation, 500)
	for i := range rows {
		rows[i] = test.Dialogue(fmt.Sprint(i), fmt.Sprintf("question %d", i), fmt.Sprintf("answer %d", i))
	}

	test.WithTestDir(t, func(dir string) {
		input := test.WriteFile(t, dir, "input.parquet", rows)
		output := filepath.Join(dir, "train.json")

		_, err := project(context.Background(), input, output)
		require.NoError(t, err)
		first := readFile(t, output)

		_, err = project(context.Background(), input, output)
		require.NoError(t, err)
		second := readFile(t, output)

		if first != second {
			t.Error("outputs of two runs over the same input differ")
		}

		_, err = project(context.Background(), input, filepath.Join(dir, "stream.json"), rowproject.Streaming(true), rowproject.BatchSize(7))
		require.NoError(t, err)
		test.AssertText(t, first, readFile(t, filepath.Join(dir, "stream.json")))

		assert.ElementsMatch(t, []string{"input.parquet", "train.json", "stream.json"}, test.Entries(t, dir))
	})
}

func TestProjectFailuresLeaveNoOutput(t *testing.T) {
	tests := []struct {
		scenario string
		rows     []test.Conversation
		options  []rowproject.Option
		err      error
	}{
		{
			scenario: "missing column",
			rows:     []test.Conversation{test.Dialogue("q1", "a", "b")},
			options:  []rowproject.Option{rowproject.ColumnName("conversation_c")},
			err:      rowproject.ErrMissingColumn,
		},

		{
			scenario: "short cell",
			rows: []test.Conversation{
				test.Dialogue("q1", "a", "b"),
				test.Dialogue("q2", "c"),
				test.Dialogue("q3", "d", "e"),
			},
			err: rowproject.ErrShortCell,
		},

		{
			scenario: "not a sequence",
			rows:     []test.Conversation{test.Dialogue("q1", "a", "b")},
			options:  []rowproject.Option{rowproject.ColumnName("question_id")},
			err:      rowproject.ErrNotSequence,
		},
	}

	for _, tt := range tests {
		for _, streaming := range []bool{false, true} {
			t.Run(fmt.Sprintf("%s/streaming=%t", tt.scenario, streaming), func(t *testing.T) {
				test.WithTestDir(t, func(dir string) {
					input := test.WriteFile(t, dir, "input.parquet", tt.rows)
					output := filepath.Join(dir, "train.json")

					options := append([]rowproject.Option{rowproject.Streaming(streaming)}, tt.options...)
					_, err := project(context.Background(), input, output, options...)
					if !errors.Is(err, tt.err) {
						t.Fatalf("wrong error: want=%v got=%v", tt.err, err)
					}

					if _, err := os.Stat(output); !errors.Is(err, fs.ErrNotExist) {
						t.Errorf("output file was written: %v", err)
					}
					assert.Equal(t, []string{"input.parquet"}, test.Entries(t, dir))
				})
			})
		}
	}
}

func TestProjectShortCellRowError(t *testing.T) {
	test.WithTestDir(t, func(dir string) {
		input := test.WriteFile(t, dir, "input.parquet", []test.Conversation{
			test.Dialogue("q1", "a", "b"),
			test.Dialogue("q2", "c"),
		})
		output := filepath.Join(dir, "train.json")
		require.NoError(t, os.WriteFile(output, []byte(`["previous"]`), 0644))

		_, err := project(context.Background(), input, output)

		var rowErr *rowproject.RowError
		require.True(t, errors.As(err, &rowErr), "unexpected error: %v", err)
		assert.Equal(t, int64(1), rowErr.Row)
		assert.Equal(t, "conversation_b", rowErr.Column)

		// The output of a previous run is left in place.
		test.AssertText(t, `["previous"]`, readFile(t, output))
	})
}

func TestProjectFileAccess(t *testing.T) {
	test.WithTestDir(t, func(dir string) {
		_, err := project(context.Background(), filepath.Join(dir, "missing.parquet"), filepath.Join(dir, "train.json"))
		assert.True(t, errors.Is(err, rowproject.ErrFileAccess), "unexpected error: %v", err)
		assert.True(t, errors.Is(err, fs.ErrNotExist), "unexpected error: %v", err)

		input := test.WriteFile(t, dir, "input.parquet", []stringPairs{{ConversationB: []string{"A", "B"}}})
		_, err = project(context.Background(), input, filepath.Join(dir, "no", "such", "dir", "train.json"))
		assert.True(t, errors.Is(err, rowproject.ErrFileAccess), "unexpected error: %v", err)
	})
}

func TestProjectFormatError(t *testing.T) {
	test.WithTestDir(t, func(dir string) {
		input := filepath.Join(dir, "input.parquet")
		require.NoError(t, os.WriteFile(input, []byte(`["this is not parquet"]`), 0644))

		_, err := project(context.Background(), input, filepath.Join(dir, "train.json"))
		assert.True(t, errors.Is(err, rowproject.ErrFormat), "unexpected error: %v", err)
		assert.Equal(t, []string{"input.parquet"}, test.Entries(t, dir))
	})
}

func TestProjectCanceled(t *testing.T) {
	test.WithTestDir(t, func(dir string) {
		input := test.WriteFile(t, dir, "input.parquet", []stringPairs{{ConversationB: []string{"A", "B"}}})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		for _, streaming := range []bool{false, true} {
			_, err := project(ctx, input, filepath.Join(dir, "train.json"), rowproject.Streaming(streaming))
			assert.True(t, errors.Is(err, context.Canceled), "unexpected error: %v", err)
		}
		assert.Equal(t, []string{"input.parquet"}, test.Entries(t, dir))
	})
}

func TestProjectCompressed(t *testing.T) {
	rows := []test.Conversation{
		test.Dialogue("q1", "hello", "world"),
		test.Dialogue("q2", "foo", "bar"),
	}

	test.WithTestDir(t, func(dir string) {
		input := test.WriteFile(t, dir, "input.parquet", rows)

		plain := filepath.Join(dir, "train.json")
		_, err := project(context.Background(), input, plain)
		require.NoError(t, err)
		want := readFile(t, plain)

		for _, ext := range []string{".gz", ".zst", ".sz", ".br", ".lz4"} {
			t.Run(ext, func(t *testing.T) {
				output := plain + ext

				stats, err := project(context.Background(), input, output)
				require.NoError(t, err)
				assert.Equal(t, int64(len(want)), stats.Bytes)

				codec := rowproject.CodecForPath(output)
				assert.Equal(t, ext, codec.Extension())

				f, err := os.Open(output)
				require.NoError(t, err)
				defer test.Close(t, f)

				got, err := compress.Decompress(codec, f)
				require.NoError(t, err)
				test.AssertText(t, want, string(got))
			})
		}
	})
}

func TestProjectInvalidConfig(t *testing.T) {
	_, err := rowproject.Project(context.Background(), rowproject.Turns(-1), rowproject.BatchSize(-1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Turns")
	assert.Contains(t, err.Error(), "BatchSize")
}

func TestTableProject(t *testing.T) {
	rows := []test.Conversation{
		test.Dialogue("q1", "a", "b", "c"),
		test.Dialogue("q2", "d", "e"),
	}
	b := test.Encode(t, rows)

	table, err := rowproject.OpenTable(bytes.NewReader(b), int64(len(b)))
	require.NoError(t, err)

	records, err := table.Project("conversation_a", 2)
	require.NoError(t, err)
	assert.Equal(t, []interface{}{
		turn("a", "user"), turn("b", "assistant"),
		turn("d", "user"), turn("e", "assistant"),
	}, records)
}

func TestProjectListColumn(t *testing.T) {
	rows := test.Lists(
		test.Dialogue("q1", "What is parquet?", "A columnar file format."),
		test.Dialogue("q2", "Merci", "De rien", "Au revoir"),
	)

	for _, streaming := range []bool{false, true} {
		t.Run(fmt.Sprintf("streaming=%t", streaming), func(t *testing.T) {
			test.WithTestDir(t, func(dir string) {
				input := test.WriteFile(t, dir, "input.parquet", rows)
				output := filepath.Join(dir, "train.json")

				stats, err := project(context.Background(), input, output, rowproject.Streaming(streaming))
				require.NoError(t, err)
				assert.Equal(t, int64(2), stats.Rows)
				assert.Equal(t, int64(4), stats.Records)

				const want = `[{"content": "What is parquet?", "role": "user"}, ` +
					`{"content": "A columnar file format.", "role": "assistant"}, ` +
					`{"content": "Merci", "role": "user"}, ` +
					`{"content": "De rien", "role": "assistant"}]`
				test.AssertText(t, want, readFile(t, output))
			})
		})
	}
}

func TestProjectListColumnShortCell(t *testing.T) {
	test.WithTestDir(t, func(dir string) {
		input := test.WriteFile(t, dir, "input.parquet", test.Lists(
			test.Dialogue("q1", "a", "b"),
			test.Dialogue("q2"),
		))
		output := filepath.Join(dir, "train.json")

		_, err := project(context.Background(), input, output)

		var rowErr *rowproject.RowError
		require.True(t, errors.As(err, &rowErr), "unexpected error: %v", err)
		assert.Equal(t, int64(1), rowErr.Row)
		assert.True(t, errors.Is(err, rowproject.ErrShortCell), "unexpected error: %v", err)
		assert.Equal(t, []string{"input.parquet"}, test.Entries(t, dir))
	})
}

func TestProjectMapFields(t *testing.T) {
	rows := []test.TaggedConversation{
		{
			QuestionID: "q1",
			ConversationB: []test.TaggedTurn{
				{Content: "hello", Role: "user", Meta: map[string]string{"lang": "en"}},
				{Content: "bonjour", Role: "assistant", Meta: map[string]string{"lang": "fr"}},
			},
		},
		{
			QuestionID: "q2",
			ConversationB: []test.TaggedTurn{
				{Content: "ping", Role: "user"},
				{Content: "pong", Role: "assistant", Meta: map[string]string{}},
			},
		},
	}

	for _, streaming := range []bool{false, true} {
		t.Run(fmt.Sprintf("streaming=%t", streaming), func(t *testing.T) {
			test.WithTestDir(t, func(dir string) {
				input := test.WriteFile(t, dir, "input.parquet", rows)
				output := filepath.Join(dir, "train.json")

				_, err := project(context.Background(), input, output, rowproject.Streaming(streaming))
				require.NoError(t, err)

				const want = `[{"content": "hello", "role": "user", "meta": {"lang": "en"}}, ` +
					`{"content": "bonjour", "role": "assistant", "meta": {"lang": "fr"}}, ` +
					`{"content": "ping", "role": "user", "meta": {}}, ` +
					`{"content": "pong", "role": "assistant", "meta": {}}]`
				test.AssertText(t, want, readFile(t, output))
			})
		})
	}
}
