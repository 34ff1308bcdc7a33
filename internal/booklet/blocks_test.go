package booklet

import (
	"errors"
	"reflect"
	"testing"
)

func TestBlockExtractorExtract(t *testing.T) {
	tests := []struct {
		name     string
		maxWords int
		text     string
		want     []Project
	}{
		{
			name:     "two blocks with markers",
			maxWords: 100,
			text: "Amazing Project A\n" +
				"Project Description:\n" +
				"This project explores X. It does many things.\n" +
				"More detail lines.\n" +
				"\n" +
				"Some other heading\n" +
				"\n" +
				"Project B\n" +
				"Project Description:\n" +
				"An independent project.\n",
			want: []Project{
				{
					Title:       "Amazing Project A",
					Description: "This project explores X. It does many things. More detail lines.",
				},
				{
					Title:       "Project B",
					Description: "An independent project.",
				},
			},
		},
		{
			name:     "description truncated to the word cap",
			maxWords: 5,
			text: "Long Project\n" +
				"Project Description:\n" +
				"one two three four five six seven\n",
			want: []Project{
				{
					Title:       "Long Project",
					Description: "one two three four five",
				},
			},
		},
		{
			name:     "title line stripped of list decoration",
			maxWords: 100,
			text: "- Decorated Project -\n" +
				"Project Description:\n" +
				"Something interesting.\n",
			want: []Project{
				{
					Title:       "Decorated Project",
					Description: "Something interesting.",
				},
			},
		},
		{
			name:     "duplicate titles dropped",
			maxWords: 100,
			text: "Repeated Project\n" +
				"Project Description:\n" +
				"First copy.\n" +
				"\n" +
				"Repeated Project\n" +
				"Project Description:\n" +
				"Second copy.\n",
			want: []Project{
				{
					Title:       "Repeated Project",
					Description: "First copy.",
				},
			},
		},
		{
			name:     "windows line endings normalized",
			maxWords: 100,
			text:     "CRLF Project\r\nProject Description:\r\nWorks anyway.\r\n",
			want: []Project{
				{
					Title:       "CRLF Project",
					Description: "Works anyway.",
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			extractor := NewBlockExtractor(DefaultDescriptionMarker, tt.maxWords)
			got, err := extractor.Extract(tt.text)
			if err != nil {
				t.Fatalf("Extract() unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Extract() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestBlockExtractorExtractNoProjects(t *testing.T) {
	extractor := NewBlockExtractor(DefaultDescriptionMarker, 100)

	tests := []struct {
		name string
		text string
	}{
		{
			name: "marker missing",
			text: "Just a heading\n\nAnd a paragraph with no marker.",
		},
		{
			name: "empty text",
			text: "",
		},
		{
			name: "marker with no description text",
			text: "Title Line\nProject Description:\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := extractor.Extract(tt.text)
			if err == nil {
				t.Fatal("Extract() expected an error")
			}
			if !errors.Is(err, ErrNoProjects) {
				t.Errorf("Extract() error = %v, want ErrNoProjects", err)
			}
		})
	}
}

func TestTruncateWords(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{
			name: "shorter than cap",
			in:   "one two",
			n:    5,
			want: "one two",
		},
		{
			name: "exactly at cap",
			in:   "one two three",
			n:    3,
			want: "one two three",
		},
		{
			name: "truncated",
			in:   "one two three four",
			n:    2,
			want: "one two",
		},
		{
			name: "empty",
			in:   "",
			n:    3,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncateWords(tt.in, tt.n); got != tt.want {
				t.Errorf("truncateWords(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
			}
		})
	}
}
