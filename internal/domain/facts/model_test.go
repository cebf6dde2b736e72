package facts

import (
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/stretchr/testify/require"
)

func TestFact_UnmarshalScalars(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		input   string
		want    Fact
		wantErr bool
	}{
		{
			name:  "strings",
			input: `{"fact":"f","context":"c","question":"q","choices":["Ahri","Lux"],"correct_answer":"Ahri"}`,
			want:  Fact{Fact: "f", Context: "c", Question: "q", Choices: []string{"Ahri", "Lux"}, CorrectAnswer: "Ahri"},
		},
		{
			name:  "booleans",
			input: `{"fact":"f","choices":[true,false],"correct_answer":false}`,
			want:  Fact{Fact: "f", Choices: []string{"True", "False"}, CorrectAnswer: "False"},
		},
		{
			name:  "numbers and nulls",
			input: `{"fact":"f","choices":[12,null,2.5],"correct_answer":12,"context":null}`,
			want:  Fact{Fact: "f", Choices: []string{"12", "2.5"}, CorrectAnswer: "12"},
		},
		{
			name:    "nested answer",
			input:   `{"fact":"f","correct_answer":["a"]}`,
			wantErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var got Fact
			err := sonic.UnmarshalString(tc.input, &got)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}
