package importer_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/splitty/internal/importer"
)

func TestParser_Parse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []importer.Row
		wantErr bool
	}{
		{
			name: "SemicolonWithPreamble",
			input: "Household expenses\n" +
				"Exported;2024-04-01\n" +
				"\n" +
				"Date;Purpose;Amount;Note\n" +
				"2024-03-02;Groceries;12,50;weekly shop\n" +
				"05-03-2024;Electricity;1.234,56;\n" +
				";Total;1.247,06;\n",
			want: []importer.Row{
				{Date: "2024-03-02", Purpose: "Groceries", Amount: 1250, Note: "weekly shop"},
				{Date: "2024-03-05", Purpose: "Electricity", Amount: 123456},
			},
		},
		{
			name: "CommaAnyColumnOrder",
			input: "Amount,Paid By,Description,Day\n" +
				"\"1,200.00\",Ana,Rent,2024-02-01\n" +
				"30,Rui,Internet,2024-02-03\n",
			want: []importer.Row{
				{Date: "2024-02-01", Purpose: "Rent", Amount: 120000, Payer: "Ana"},
				{Date: "2024-02-03", Purpose: "Internet", Amount: 3000, Payer: "Rui"},
			},
		},
		{
			name:  "CurrencySymbol",
			input: "date;item;value\n01/03/2024;Water;€ 9,99\n",
			want: []importer.Row{
				{Date: "2024-03-01", Purpose: "Water", Amount: 999},
			},
		},
		{
			name:    "MissingPurpose",
			input:   "date;purpose;amount\n2024-03-01;;10\n",
			wantErr: true,
		},
		{
			name:    "NegativeAmount",
			input:   "date;purpose;amount\n2024-03-01;Refund;-10\n",
			wantErr: true,
		},
		{
			name:    "GarbageAmount",
			input:   "date;purpose;amount\n2024-03-01;Pizza;abc\n",
			wantErr: true,
		},
		{
			name:    "NoHeader",
			input:   "a;b;c\n1;2;3\n",
			wantErr: true,
		},
		{
			name:  "HeaderOnly",
			input: "date,purpose,amount\n",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := importer.NewParser().Parse(strings.NewReader(tt.input))
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParser_Parse_RowNumberInError(t *testing.T) {
	input := "title\ndate;purpose;amount\n2024-03-01;Bread;2\n2024-03-02;Milk;x\n"

	_, err := importer.NewParser().Parse(strings.NewReader(input))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 4")
}

func TestParser_Parse_Windows1252(t *testing.T) {
	input := []byte("date;purpose;amount\n2024-03-01;A\xe7a\xed;3,20\n")

	got, err := importer.NewParser().Parse(strings.NewReader(string(input)))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Açaí", got[0].Purpose)
	assert.Equal(t, int64(320), got[0].Amount)
}
