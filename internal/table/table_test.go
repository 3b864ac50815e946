package table

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tripsCSV = `VendorID,tpep_pickup_datetime,passenger_count,fare_amount
1,2024-01-01 05:12:00,1,12.50
2,2024-01-01 05:40:00,2,
1,2024-01-03 23:01:00,1,"8,75"
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRead_CSV(t *testing.T) {
	tbl, err := Read(writeFile(t, "trips.csv", tripsCSV), FormatAuto)
	require.NoError(t, err)

	assert.Equal(t, []string{"VendorID", "tpep_pickup_datetime", "passenger_count", "fare_amount"}, tbl.Columns)
	assert.Equal(t, 3, tbl.Len())
	assert.Equal(t, "", tbl.Rows[1][3])
	assert.Equal(t, "8,75", tbl.Rows[2][3])

	pickups, ok := tbl.Column("tpep_pickup_datetime")
	require.True(t, ok)
	assert.Equal(t, []string{"2024-01-01 05:12:00", "2024-01-01 05:40:00", "2024-01-03 23:01:00"}, pickups)

	_, ok = tbl.Column("dropoff")
	assert.False(t, ok)
}

func TestRead_StripsBOM(t *testing.T) {
	tbl, err := Read(writeFile(t, "bom.csv", "\ufefftpep_pickup_datetime,x\n2024-01-01 00:00:00,1\n"), FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, 0, tbl.ColumnIndex("tpep_pickup_datetime"))
}

func TestRead_TSV(t *testing.T) {
	tbl, err := Read(writeFile(t, "trips.tsv", "a\tb\n1\t2\n"), FormatAuto)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"1", "2"}}, tbl.Rows)
}

func TestRead_Errors(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "missing.csv"), FormatAuto)
	assert.True(t, errors.Is(err, ErrInputNotFound))

	_, err = Read(writeFile(t, "ragged.csv", "a,b\n1,2\n3\n"), FormatAuto)
	assert.Error(t, err)

	_, err = Read(writeFile(t, "dup.csv", "a,a\n1,2\n"), FormatAuto)
	assert.True(t, errors.Is(err, ErrDuplicateColumn))
}

func TestRead_EmptyFile(t *testing.T) {
	tbl, err := Read(writeFile(t, "empty.csv", ""), FormatAuto)
	require.NoError(t, err)
	assert.Empty(t, tbl.Columns)
	assert.Equal(t, 0, tbl.Len())
}

func TestTake(t *testing.T) {
	tbl, err := New([]string{"id"}, [][]string{{"a"}, {"b"}, {"c"}})
	require.NoError(t, err)

	out := tbl.Take([]int{2, 0})
	assert.Equal(t, [][]string{{"c"}, {"a"}}, out.Rows)
	assert.Equal(t, 3, tbl.Len(), "source untouched")

	empty := tbl.Take(nil)
	assert.Equal(t, 0, empty.Len())
	assert.Equal(t, []string{"id"}, empty.Columns)
}

func TestHead(t *testing.T) {
	tbl, _ := New([]string{"id"}, [][]string{{"a"}, {"b"}})
	assert.Len(t, tbl.Head(5), 2)
	assert.Len(t, tbl.Head(1), 1)
	assert.Len(t, tbl.Head(-1), 0)
}

func TestWrite_CSVRoundTrip(t *testing.T) {
	src, err := Read(writeFile(t, "trips.csv", tripsCSV), FormatAuto)
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "nested", "sample.csv")
	require.NoError(t, Write(out, src.Take([]int{2, 0}), DefaultWriteOptions()))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, strings.Join([]string{
		"VendorID,tpep_pickup_datetime,passenger_count,fare_amount",
		`1,2024-01-03 23:01:00,1,"8,75"`,
		"1,2024-01-01 05:12:00,1,12.50",
		"",
	}, "\n"), string(data))

	// no temp files left behind
	entries, err := os.ReadDir(filepath.Dir(out))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWrite_FileMode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permissions")
	}
	src, err := Read(writeFile(t, "trips.csv", tripsCSV), FormatAuto)
	require.NoError(t, err)
	dir := t.TempDir()

	fresh := filepath.Join(dir, "sample.csv")
	require.NoError(t, Write(fresh, src, DefaultWriteOptions()))
	st, err := os.Stat(fresh)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), st.Mode().Perm())

	existing := filepath.Join(dir, "kept.csv")
	require.NoError(t, os.WriteFile(existing, []byte("old\n"), 0600))
	require.NoError(t, os.Chmod(existing, 0640))
	require.NoError(t, Write(existing, src, DefaultWriteOptions()))
	st, err = os.Stat(existing)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0640), st.Mode().Perm(), "existing mode kept")
}

func TestWrite_CSVAsParquet(t *testing.T) {
	src, err := Read(writeFile(t, "trips.csv", tripsCSV), FormatAuto)
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "sample.parquet")
	require.NoError(t, Write(out, src, DefaultWriteOptions()))

	back, err := Read(out, FormatAuto)
	require.NoError(t, err)

	// string schema columns come back in name order
	assert.Equal(t, []string{"VendorID", "fare_amount", "passenger_count", "tpep_pickup_datetime"}, back.Columns)
	require.Equal(t, 3, back.Len())

	pickups, _ := back.Column("tpep_pickup_datetime")
	assert.Equal(t, []string{"2024-01-01 05:12:00", "2024-01-01 05:40:00", "2024-01-03 23:01:00"}, pickups)

	fares, _ := back.Column("fare_amount")
	assert.Equal(t, []string{"12.50", "", "8,75"}, fares)
}

type tlcRow struct {
	VendorID       int32     `parquet:"VendorID"`
	PickupDatetime time.Time `parquet:"tpep_pickup_datetime,timestamp(microsecond)"`
	Passengers     int64     `parquet:"passenger_count"`
	Fare           float64   `parquet:"fare_amount"`
	StoreAndFwd    string    `parquet:"store_and_fwd_flag"`
}

func writeTLCParquet(t *testing.T, rows []tlcRow) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "yellow_tripdata.parquet")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := parquet.NewGenericWriter[tlcRow](f)
	_, err = w.Write(rows)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return path
}

func TestParquet_NativeRoundTrip(t *testing.T) {
	path := writeTLCParquet(t, []tlcRow{
		{1, time.Date(2024, 1, 1, 5, 12, 0, 0, time.UTC), 1, 12.5, "N"},
		{2, time.Date(2024, 1, 1, 6, 0, 30, 500_000_000, time.UTC), 3, 30, "Y"},
		{1, time.Date(2024, 1, 2, 0, 1, 0, 0, time.UTC), 1, 7.25, "N"},
	})

	src, err := Read(path, FormatAuto)
	require.NoError(t, err)
	require.Equal(t, 3, src.Len())

	pickups, ok := src.Column("tpep_pickup_datetime")
	require.True(t, ok)
	assert.Equal(t, []string{"2024-01-01 05:12:00", "2024-01-01 06:00:30.5", "2024-01-02 00:01:00"}, pickups)

	fares, _ := src.Column("fare_amount")
	assert.Equal(t, []string{"12.5", "30", "7.25"}, fares)

	out := filepath.Join(t.TempDir(), "sample.parquet")
	taken := src.Take([]int{2, 1})
	require.NoError(t, Write(out, taken, WriteOptions{Compression: CompressionSnappy}))

	back, err := Read(out, FormatAuto)
	require.NoError(t, err)
	assert.Equal(t, src.Columns, back.Columns)
	assert.Equal(t, taken.Rows, back.Rows)
	assert.Equal(t, src.schema.String(), back.schema.String())
}

func TestParquet_AsCSV(t *testing.T) {
	path := writeTLCParquet(t, []tlcRow{
		{1, time.Date(2024, 1, 1, 5, 12, 0, 0, time.UTC), 1, 12.5, "N"},
	})

	src, err := Read(path, FormatAuto)
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "sample.csv")
	require.NoError(t, Write(out, src, DefaultWriteOptions()))

	back, err := Read(out, FormatAuto)
	require.NoError(t, err)
	assert.Equal(t, src.Rows, back.Rows)
}

func TestParseFormatAndCompression(t *testing.T) {
	f, err := ParseFormat("PARQUET")
	require.NoError(t, err)
	assert.Equal(t, FormatParquet, f)

	_, err = ParseFormat("xlsx")
	assert.Error(t, err)

	assert.Equal(t, FormatParquet, DetectFormat("a/b/yellow.PARQUET"))
	assert.Equal(t, FormatTSV, DetectFormat("x.tsv"))
	assert.Equal(t, FormatCSV, DetectFormat("converted"))

	c, err := ParseCompression("gzip")
	require.NoError(t, err)
	assert.Equal(t, CompressionGzip, c)

	_, err = ParseCompression("brotli")
	assert.Error(t, err)
}

func TestCheckDistinct(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "converted.csv")

	assert.NoError(t, CheckDistinct(in, filepath.Join(dir, "test.csv")))
	assert.True(t, errors.Is(CheckDistinct(in, filepath.Join(dir, ".", "converted.csv")), ErrSamePath))
}
