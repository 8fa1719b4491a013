package analysis

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextIsACopy(t *testing.T) {
	var nilDesc *DatasetDescriptor
	assert.Nil(t, nilDesc.Context())

	d := &DatasetDescriptor{
		Columns:    []string{"a", "b"},
		SampleData: []Record{{"a": 1.0, "b": "x"}},
	}
	ctx := d.Context()
	ctx.Columns[0] = "changed"
	ctx.SampleData[0]["a"] = 99.0

	assert.Equal(t, "a", d.Columns[0])
	assert.Equal(t, 1.0, d.SampleData[0]["a"])
}

func TestChartResultKind(t *testing.T) {
	var nilRes *ChartResult
	assert.Equal(t, ChartEmpty, nilRes.Kind())
	assert.Equal(t, ChartEmpty, (&ChartResult{Success: true}).Kind())
	assert.Equal(t, ChartImage, (&ChartResult{ChartImage: "aGk="}).Kind())
	assert.Equal(t, ChartStructured, (&ChartResult{Type: "line"}).Kind())

	img, err := (&ChartResult{ChartImage: "aGk="}).Image()
	require.NoError(t, err)
	assert.Equal(t, "hi", string(img))

	_, err = (&ChartResult{ChartImage: "%%%"}).Image()
	assert.Error(t, err)
}

func TestChatRequestMarshalsNullContext(t *testing.T) {
	b, err := json.Marshal(ChatRequest{Message: "hi"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"message":"hi","datasetInfo":null}`, string(b))
}
