package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeCSV_NumbersRowsFromTwo(t *testing.T) {
	csvData := []byte("name,city\nAcme Staffing,Boston\nBravo Crew,Denver\n")

	result := DecodeCSV(csvData)

	require.True(t, result.Success)
	require.Len(t, result.Data, 2)
	assert.Empty(t, result.Errors)
	assert.Equal(t, 2, result.Data[0].RowNumber)
	assert.Equal(t, 3, result.Data[1].RowNumber)
	assert.Equal(t, "Acme Staffing", result.Data[0].String(ColName))
	assert.Equal(t, "Denver", result.Data[1].String(ColCity))
}

func TestDecodeCSV_StripsBOMAndSkipsBlankLines(t *testing.T) {
	csvData := []byte("\xEF\xBB\xBFname\nAcme Staffing\n\n   \nBravo Crew\n")

	result := DecodeCSV(csvData)

	require.True(t, result.Success)
	require.Len(t, result.Data, 2)
	assert.Equal(t, "Acme Staffing", result.Data[0].String(ColName))
	assert.Equal(t, "Bravo Crew", result.Data[1].String(ColName))
}

func TestDecodeCSV_CollectsFaultyRowsAndContinues(t *testing.T) {
	// Row 3 has more cells than the header defines; rows 2 and 4 are fine.
	csvData := []byte("name,city\nAcme Staffing,Boston\nBravo Crew,Denver,extra\nCrew Depot,Austin\n")

	result := DecodeCSV(csvData)

	require.True(t, result.Success)
	require.Len(t, result.Data, 2)
	assert.Equal(t, 2, result.Data[0].RowNumber)
	assert.Equal(t, 4, result.Data[1].RowNumber)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 3, result.Errors[0].RowNumber)
	assert.Contains(t, result.Errors[0].Message, "row 3")
}

func TestDecodeCSV_MissingRequiredColumn(t *testing.T) {
	result := DecodeCSV([]byte("city,email\nBoston,a@b.com\n"))

	require.False(t, result.Success)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].Message, "missing required header column: name")
	assert.Empty(t, result.Data)
}

func TestDecodeCSV_UnknownColumnRejected(t *testing.T) {
	result := DecodeCSV([]byte("name,shoe_size\nAcme,12\n"))

	require.False(t, result.Success)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].Message, "unexpected header column: shoe_size")
}

func TestDecodeCSV_DuplicateColumnRejected(t *testing.T) {
	result := DecodeCSV([]byte("name,name\nAcme,Acme\n"))

	require.False(t, result.Success)
	assert.Contains(t, result.Errors[0].Message, "duplicate header column: name")
}

func TestDecodeCSV_EmptyFile(t *testing.T) {
	result := DecodeCSV(nil)

	require.False(t, result.Success)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].Message, "missing header")
}

func TestDecodeCSV_HeaderOnlyIsFailure(t *testing.T) {
	result := DecodeCSV([]byte("name,city\n"))

	require.False(t, result.Success)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].Message, "no data rows found")
}

func TestDecodeCSV_SplitsTrades(t *testing.T) {
	result := DecodeCSV([]byte("name,trades\nAcme,\"electrical, plumbing ,hvac\"\n"))

	require.True(t, result.Success)
	require.Len(t, result.Data, 1)
	assert.Equal(t, []string{"electrical", "plumbing", "hvac"}, result.Data[0].List(ColTrades))
}

func TestDecodeXLSX_TemplateRoundTrip(t *testing.T) {
	payload, err := BuildTemplateXLSX()
	require.NoError(t, err)

	result := DecodeXLSX(payload)

	require.True(t, result.Success)
	require.Len(t, result.Data, 1)
	assert.Equal(t, 2, result.Data[0].RowNumber)
	assert.NotEmpty(t, result.Data[0].String(ColName))
}

func TestDecodeXLSX_Garbage(t *testing.T) {
	result := DecodeXLSX([]byte("this is not a zip archive"))

	require.False(t, result.Success)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].Message, "unreadable xlsx file")
}

func TestDetectFormat(t *testing.T) {
	xlsxPayload, err := BuildTemplateXLSX()
	require.NoError(t, err)

	tests := []struct {
		name         string
		filename     string
		declaredMIME string
		data         []byte
		want         Format
		wantErr      bool
	}{
		{
			name:     "csv by extension",
			filename: "agencies.csv",
			data:     []byte("name\nAcme\n"),
			want:     FormatCSV,
		},
		{
			name:         "csv by declared type",
			filename:     "upload",
			declaredMIME: "text/csv",
			data:         []byte("name\nAcme\n"),
			want:         FormatCSV,
		},
		{
			name:     "xlsx by content",
			filename: "agencies.xlsx",
			data:     xlsxPayload,
			want:     FormatXLSX,
		},
		{
			name:     "binary junk rejected",
			filename: "photo.png",
			data:     []byte("\x89PNG\r\n\x1a\n00000000"),
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectFormat(tt.filename, tt.declaredMIME, tt.data)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecode_UsesDetectedFormat(t *testing.T) {
	result := Decode("agencies.csv", "text/csv", []byte("name\nAcme\n"))
	require.True(t, result.Success)
	require.Len(t, result.Data, 1)

	result = Decode("photo.png", "image/png", []byte("\x89PNG\r\n\x1a\n00000000"))
	require.False(t, result.Success)
	assert.Contains(t, result.Errors[0].Message, "unsupported file type")
}
