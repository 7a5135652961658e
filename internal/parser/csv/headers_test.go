package csv

import "testing"

func TestNormalizeHeaders(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []string
		m    map[string]string
		want []string
	}{
		{
			name: "lowercase and underscores",
			in:   []string{"ID", "Employee Name", "Base  Pay"},
			want: []string{"id", "employee_name", "base__pay"},
		},
		{
			name: "bom stripped from first cell only",
			in:   []string{"\uFEFFid", "name"},
			want: []string{"id", "name"},
		},
		{
			name: "diacritics folded",
			in:   []string{"Département", "Señor"},
			want: []string{"departement", "senor"},
		},
		{
			name: "empty headers synthesized",
			in:   []string{"a", "", "c"},
			want: []string{"a", "col_1", "c"},
		},
		{
			name: "header map applies before normalization",
			in:   []string{"Full Name", "PAY"},
			m:    map[string]string{"Full Name": "name"},
			want: []string{"name", "pay"},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := NormalizeHeaders(tc.in, tc.m)
			if len(got) != len(tc.want) {
				t.Fatalf("len=%d want %d (%v)", len(got), len(tc.want), got)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("[%d]=%q want %q", i, got[i], tc.want[i])
				}
			}
		})
	}
}
