package rowproject_test

import (
	"strings"
	"testing"

	"github.com/segmentio/rowproject"
)

func TestNewConfigDefaults(t *testing.T) {
	config, err := rowproject.NewConfig()
	if err != nil {
		t.Fatal(err)
	}

	want := rowproject.DefaultConfig()
	if *config != *want {
		t.Errorf("wrong default configuration: want=%+v got=%+v", want, config)
	}
	if config.OutputPath != "train.json" || config.ColumnName != "conversation_b" || config.Turns != 2 {
		t.Errorf("unexpected default values: %+v", config)
	}
}

func TestConfigOptions(t *testing.T) {
	config, err := rowproject.NewConfig(
		rowproject.InputPath("in.parquet"),
		rowproject.OutputPath("out.json.gz"),
		rowproject.ColumnName("conversation_a"),
		rowproject.Turns(4),
		rowproject.BatchSize(8),
		rowproject.Streaming(true),
		rowproject.EscapeASCII(false),
		rowproject.Compression(&rowproject.Zstd),
	)
	if err != nil {
		t.Fatal(err)
	}

	want := rowproject.Config{
		InputPath:   "in.parquet",
		OutputPath:  "out.json.gz",
		ColumnName:  "conversation_a",
		Turns:       4,
		BatchSize:   8,
		Streaming:   true,
		UTF8:        true,
		Compression: &rowproject.Zstd,
	}
	if *config != want {
		t.Errorf("wrong configuration: want=%+v got=%+v", want, *config)
	}
}

func TestConfigAsOption(t *testing.T) {
	config, err := rowproject.NewConfig(&rowproject.Config{
		InputPath: "in.parquet",
		Streaming: true,
	})
	if err != nil {
		t.Fatal(err)
	}

	if config.InputPath != "in.parquet" || !config.Streaming {
		t.Errorf("options not applied: %+v", config)
	}
	if config.OutputPath != rowproject.DefaultOutputPath || config.Turns != rowproject.DefaultTurns {
		t.Errorf("defaults not preserved: %+v", config)
	}
}

func TestConfigValidate(t *testing.T) {
	_, err := rowproject.NewConfig(
		rowproject.ColumnName(""),
		rowproject.Turns(0),
	)
	if err == nil {
		t.Fatal("invalid options were accepted")
	}
	for _, name := range []string{"ColumnName", "Turns"} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("error does not mention %s: %v", name, err)
		}
	}

	config := &rowproject.Config{}
	err = config.Validate()
	if err == nil {
		t.Fatal("empty configuration is valid")
	}
	for _, name := range []string{"InputPath", "OutputPath", "ColumnName", "Turns", "BatchSize"} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("error does not mention %s: %v", name, err)
		}
	}
}
