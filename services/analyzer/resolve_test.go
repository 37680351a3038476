package analyzer

import (
	"testing"

	"vocabtutor/models"
)

func trackedWords(words ...string) []*models.WordRecord {
	records := make([]*models.WordRecord, 0, len(words))
	for _, word := range words {
		records = append(records, models.NewWordRecord(word))
	}
	return records
}

func TestResolveWord(t *testing.T) {
	tracked := trackedWords("abate", "run", "calm", "study", "serendipity", "fly")

	tests := []struct {
		name string
		form string
		want string
		ok   bool
	}{
		{name: "exact match", form: "abate", want: "abate", ok: true},
		{name: "case folded", form: "Abate", want: "abate", ok: true},
		{name: "surrounding whitespace", form: " abate ", want: "abate", ok: true},
		{name: "plural s", form: "runs", want: "run", ok: true},
		{name: "third person es", form: "abates", want: "abate", ok: true},
		{name: "past tense with dropped e", form: "abated", want: "abate", ok: true},
		{name: "ing with dropped e", form: "abating", want: "abate", ok: true},
		{name: "doubled consonant", form: "running", want: "run", ok: true},
		{name: "ies to y", form: "studies", want: "study", ok: true},
		{name: "ied to y", form: "studied", want: "study", ok: true},
		{name: "flies to fly", form: "flies", want: "fly", ok: true},
		{name: "adverb ly", form: "calmly", want: "calm", ok: true},
		{name: "close misspelling", form: "serendipty", want: "serendipity", ok: true},
		{name: "untracked word", form: "xylophone", ok: false},
		{name: "empty form", form: "", ok: false},
		{name: "short noise stays unresolved", form: "a", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record, ok := resolveWord(tt.form, tracked)
			if ok != tt.ok {
				t.Fatalf("resolveWord(%q) ok = %v, want %v", tt.form, ok, tt.ok)
			}
			if ok && record.Word != tt.want {
				t.Errorf("resolveWord(%q) = %q, want %q", tt.form, record.Word, tt.want)
			}
		})
	}
}

func TestStemCandidates(t *testing.T) {
	tests := []struct {
		name string
		form string
		want string
	}{
		{name: "restores dropped e", form: "abated", want: "abate"},
		{name: "collapses double consonant", form: "stopped", want: "stop"},
		{name: "plural", form: "words", want: "word"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, candidate := range stemCandidates(tt.form) {
				if candidate == tt.want {
					return
				}
			}
			t.Errorf("stemCandidates(%q) missing %q", tt.form, tt.want)
		})
	}
}

func TestFormatTranscript(t *testing.T) {
	got := formatTranscript([]models.Message{
		{Role: "user", Content: "I tried to abate the noise."},
		{Role: "assistant", Content: "Nicely used!"},
	})

	want := "learner: I tried to abate the noise.\ntutor: Nicely used!\n"
	if got != want {
		t.Errorf("formatTranscript() = %q, want %q", got, want)
	}
}

func BenchmarkResolveWord(b *testing.B) {
	tracked := trackedWords("abate", "run", "calm", "study", "serendipity", "fly", "brisk", "candid")

	for i := 0; i < b.N; i++ {
		resolveWord("studies", tracked)
	}
}
