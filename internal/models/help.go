package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// HelpType names one of the once-per-game lifelines
type HelpType string

const (
	HelpFiftyFifty   HelpType = "fifty_fifty"
	HelpAudienceHelp HelpType = "audience_help"
	HelpFriendCall   HelpType = "friend_call"
)

// ParseHelpType converts user input into a HelpType
func ParseHelpType(s string) (HelpType, error) {
	switch h := HelpType(strings.ToLower(strings.TrimSpace(s))); h {
	case HelpFiftyFifty, HelpAudienceHelp, HelpFriendCall:
		return h, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownHelp, s)
}

// RandomSource is the randomness the game needs; *rand.Rand satisfies it
type RandomSource interface {
	Intn(n int) int
	Perm(n int) []int
}

// FriendCall is the hint given by a phoned friend
type FriendCall struct {
	Friend string `json:"friend"`
	Key    string `json:"key"`
}

func (f FriendCall) String() string {
	return fmt.Sprintf("%s thinks the answer is %s", f.Friend, strings.ToUpper(f.Key))
}

// HelpHash holds the hints revealed for one game question.
// It is stored as JSON in game_questions.help_hash.
type HelpHash struct {
	FiftyFifty   []string       `json:"fifty_fifty,omitempty"`
	AudienceHelp map[string]int `json:"audience_help,omitempty"`
	FriendCall   *FriendCall    `json:"friend_call,omitempty"`
}

// Value implements driver.Valuer
func (h HelpHash) Value() (driver.Value, error) {
	data, err := json.Marshal(h)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner
func (h *HelpHash) Scan(src interface{}) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*h = HelpHash{}
		return nil
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("cannot scan %T into HelpHash", src)
	}
	if len(data) == 0 {
		*h = HelpHash{}
		return nil
	}
	return json.Unmarshal(data, h)
}

var friendNames = []string{"Anna", "Boris", "Clara", "Dmitry", "Elena", "Fedor"}

// fiftyFifty keeps the correct key and one random wrong key
func fiftyFifty(keys []string, correct string, rng RandomSource) []string {
	wrong := wrongKeys(keys, correct)
	result := []string{correct, wrong[rng.Intn(len(wrong))]}
	sort.Strings(result)
	return result
}

// audienceDistribution returns a percentage per key summing to 100.
// Most of the time the audience favours the correct key.
func audienceDistribution(keys []string, correct string, rng RandomSource) map[string]int {
	weights := make(map[string]int, len(keys))
	total := 0
	for _, key := range keys {
		weights[key] = rng.Intn(20) + 1
	}
	if rng.Intn(10) < 8 {
		weights[correct] += 45 + rng.Intn(40)
	}
	for _, key := range keys {
		total += weights[key]
	}

	result := make(map[string]int, len(keys))
	assigned := 0
	top := keys[0]
	for _, key := range keys {
		result[key] = weights[key] * 100 / total
		assigned += result[key]
		if weights[key] > weights[top] {
			top = key
		}
	}
	result[top] += 100 - assigned
	return result
}

// friendCall names a friend who is right most of the time
func friendCall(keys []string, correct string, rng RandomSource) *FriendCall {
	key := correct
	if rng.Intn(10) >= 8 {
		wrong := wrongKeys(keys, correct)
		key = wrong[rng.Intn(len(wrong))]
	}
	return &FriendCall{
		Friend: friendNames[rng.Intn(len(friendNames))],
		Key:    key,
	}
}

func wrongKeys(keys []string, correct string) []string {
	wrong := make([]string, 0, len(keys)-1)
	for _, key := range keys {
		if key != correct {
			wrong = append(wrong, key)
		}
	}
	return wrong
}
