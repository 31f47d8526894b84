package importer

import (
	"fmt"
	"strings"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAlumniCSV(t *testing.T) {
	csv := strings.Join([]string{
		"name,roll_no,batch,branch",
		"Asha Verma,CSE18-042,2018,CSE",
		"Ravi Kumar,ECE16-007,2016,ECE",
	}, "\n")

	records, err := ParseAlumniCSV(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "Asha Verma", records[0].Name)
	assert.Equal(t, "CSE18-042", records[0].RollNo)
	assert.Equal(t, 2018, records[0].Batch)
	assert.Equal(t, "ECE", records[1].Branch)
}

func TestParseAlumniCSV_HeaderIsCaseInsensitive(t *testing.T) {
	csv := "Name,Roll_No,Batch,Branch\nAsha,R1,2018,CSE\n"

	records, err := ParseAlumniCSV(strings.NewReader(csv))
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestParseAlumniCSV_Failures(t *testing.T) {
	cases := []struct {
		name string
		csv  string
		line int
	}{
		{"empty file", "", 0},
		{"wrong header", "full_name,roll,year,dept\nAsha,R1,2018,CSE\n", 1},
		{"header only", "name,roll_no,batch,branch\n", 2},
		{"non numeric batch", "name,roll_no,batch,branch\nAsha,R1,twenty,CSE\n", 2},
		{"batch before founding", "name,roll_no,batch,branch\nOld Timer,R1,1870,CSE\n", 2},
		{"batch too far out", fmt.Sprintf("name,roll_no,batch,branch\nAsha,R1,%d,CSE\n", time.Now().Year()+5), 2},
		{"missing fields", "name,roll_no,batch,branch\nAsha,R1,2018,CSE\n,R2,2019,ECE\n", 3},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseAlumniCSV(strings.NewReader(tc.csv))
			require.Error(t, err)

			var richErr *goerrors.Error
			require.ErrorAs(t, err, &richErr)
			assert.Equal(t, tc.line, richErr.Metadata["line"])
		})
	}
}

func TestParseAlumniCSV_BatchWindowBoundaries(t *testing.T) {
	csv := fmt.Sprintf("name,roll_no,batch,branch\nAsha,R1,2006,CSE\nRavi,R2,%d,ECE\n", time.Now().Year()+4)

	records, err := ParseAlumniCSV(strings.NewReader(csv))
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestParseAlumniCSV_RowWithWrongArity(t *testing.T) {
	csv := "name,roll_no,batch,branch\nAsha,R1,2018\n"

	_, err := ParseAlumniCSV(strings.NewReader(csv))
	require.Error(t, err)
}
