package srs

import (
	"fmt"
	"testing"
	"time"

	"vocabtutor/models"
)

func reviewWord(word string, lastSeen, nextDue time.Time, correct, total int) *models.WordRecord {
	record := models.NewWordRecord(word)
	record.TimeLastSeen = lastSeen
	record.NextDue = nextDue
	record.CorrectUses = correct
	record.TotalUses = total
	return record
}

func TestNewPolicy(t *testing.T) {
	tests := []struct {
		name     string
		policy   string
		wantName string
		wantErr  bool
	}{
		{name: "due", policy: "due", wantName: PolicyDue},
		{name: "balanced", policy: "balanced", wantName: PolicyBalanced},
		{name: "empty defaults to due", policy: "", wantName: PolicyDue},
		{name: "case insensitive", policy: "Balanced", wantName: PolicyBalanced},
		{name: "unknown", policy: "alphabetical", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policy, err := NewPolicy(tt.policy)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("NewPolicy(%q) expected error, got %v", tt.policy, policy.Name())
				}
				return
			}
			if err != nil {
				t.Fatalf("NewPolicy(%q) error = %v", tt.policy, err)
			}
			if policy.Name() != tt.wantName {
				t.Errorf("NewPolicy(%q).Name() = %q, want %q", tt.policy, policy.Name(), tt.wantName)
			}
		})
	}
}

func TestDuePolicyRanksByDueDate(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	words := []*models.WordRecord{
		reviewWord("candid", now, now.Add(48*time.Hour), 3, 4),
		reviewWord("abate", now, now.Add(-72*time.Hour), 1, 4),
		reviewWord("brisk", now, now.Add(2*time.Hour), 2, 4),
	}

	DuePolicy{}.Rank(words, now)

	want := []string{"abate", "brisk", "candid"}
	for i, word := range want {
		if words[i].Word != word {
			t.Errorf("rank %d = %q, want %q", i, words[i].Word, word)
		}
	}
}

func TestDuePolicyBreaksTiesByWord(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	due := now.Add(-time.Hour)

	words := []*models.WordRecord{
		reviewWord("thorny", now, due, 1, 2),
		reviewWord("murky", now, due, 2, 2),
	}

	DuePolicy{}.Rank(words, now)

	if words[0].Word != "murky" || words[1].Word != "thorny" {
		t.Errorf("tied due dates ranked %q, %q, want murky, thorny", words[0].Word, words[1].Word)
	}
}

func TestBalancedPolicyPrefersStrugglingWords(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	lastSeen := now.Add(-24 * time.Hour)
	due := now.Add(-2 * time.Hour)

	words := []*models.WordRecord{
		reviewWord("fluent", lastSeen, due, 9, 10),
		reviewWord("shaky", lastSeen, due, 2, 10),
	}

	BalancedPolicy{}.Rank(words, now)

	if words[0].Word != "shaky" {
		t.Errorf("rank 0 = %q, want shaky", words[0].Word)
	}
}

func TestBalancedPolicyPushesBackJustSeenWords(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	due := now.Add(-time.Hour)

	words := []*models.WordRecord{
		reviewWord("recent", now.Add(-30*time.Minute), due, 5, 10),
		reviewWord("stale", now.Add(-36*time.Hour), due, 5, 10),
	}

	BalancedPolicy{}.Rank(words, now)

	if words[0].Word != "stale" {
		t.Errorf("rank 0 = %q, want stale", words[0].Word)
	}
}

func TestBalancedPolicyOverdueOutranksFuture(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	lastSeen := now.Add(-24 * time.Hour)

	words := []*models.WordRecord{
		reviewWord("later", lastSeen, now.Add(96*time.Hour), 5, 10),
		reviewWord("overdue", lastSeen, now.Add(-48*time.Hour), 5, 10),
	}

	BalancedPolicy{}.Rank(words, now)

	if words[0].Word != "overdue" {
		t.Errorf("rank 0 = %q, want overdue", words[0].Word)
	}
}

func TestRankDoesNotMutateRecords(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	original := reviewWord("pristine", now.Add(-10*time.Hour), now.Add(-time.Hour), 3, 7)
	other := reviewWord("other", now.Add(-20*time.Hour), now.Add(time.Hour), 1, 7)
	before := *original

	for _, policy := range []PriorityPolicy{DuePolicy{}, BalancedPolicy{}} {
		policy.Rank([]*models.WordRecord{original, other}, now)
		if *original != before {
			t.Errorf("%s policy mutated a record", policy.Name())
		}
	}
}

func BenchmarkBalancedPolicyRank(b *testing.B) {
	now := time.Now()
	words := make([]*models.WordRecord, 0, 200)
	for i := 0; i < 200; i++ {
		words = append(words, reviewWord(
			fmt.Sprintf("word%03d", i),
			now.Add(-time.Duration(i)*time.Hour),
			now.Add(time.Duration(i%48-24)*time.Hour),
			i%5, i%7+1,
		))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		BalancedPolicy{}.Rank(words, now)
	}
}
