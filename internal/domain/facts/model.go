package facts

import (
	"fmt"
	"strconv"

	sonic "github.com/bytedance/sonic"
)

// Fact is one generated trivia item about a player's year.
type Fact struct {
	Fact          string   `json:"fact"`
	Context       string   `json:"context"`
	Question      string   `json:"question"`
	Choices       []string `json:"choices"`
	CorrectAnswer string   `json:"correct_answer"`
}

type looseFact struct {
	Fact          any   `json:"fact"`
	Context       any   `json:"context"`
	Question      any   `json:"question"`
	Choices       []any `json:"choices"`
	CorrectAnswer any   `json:"correct_answer"`
}

// UnmarshalJSON accepts scalar values of any JSON type where a string is
// expected, so True/False items written as booleans still decode.
func (f *Fact) UnmarshalJSON(data []byte) error {
	var loose looseFact
	if err := sonic.Unmarshal(data, &loose); err != nil {
		return err
	}

	var out Fact
	var err error
	if out.Fact, err = scalarText("fact", loose.Fact); err != nil {
		return err
	}
	if out.Context, err = scalarText("context", loose.Context); err != nil {
		return err
	}
	if out.Question, err = scalarText("question", loose.Question); err != nil {
		return err
	}
	if out.CorrectAnswer, err = scalarText("correct_answer", loose.CorrectAnswer); err != nil {
		return err
	}
	if loose.Choices != nil {
		out.Choices = make([]string, 0, len(loose.Choices))
		for _, choice := range loose.Choices {
			if choice == nil {
				continue
			}
			text, err := scalarText("choices", choice)
			if err != nil {
				return err
			}
			out.Choices = append(out.Choices, text)
		}
	}

	*f = out
	return nil
}

// scalarText renders booleans as the prompt's True/False wording.
func scalarText(field string, v any) (string, error) {
	switch value := v.(type) {
	case nil:
		return "", nil
	case string:
		return value, nil
	case bool:
		if value {
			return "True", nil
		}
		return "False", nil
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64), nil
	case int64:
		return strconv.FormatInt(value, 10), nil
	default:
		return "", fmt.Errorf("facts: field %s holds a %T, want a scalar", field, v)
	}
}
