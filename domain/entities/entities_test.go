package entities

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBy(t *testing.T) {
	tests := map[string]By{
		"id":                ByID,
		"css":               ByCSSSelector,
		"CSS Selector":      ByCSSSelector,
		"class_name":        ByClassName,
		"link":              ByLinkText,
		"partial link text": ByPartialLinkText,
		"tag":               ByTagName,
		"xpath":             ByXPath,
	}
	for in, want := range tests {
		got, err := ParseBy(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseBy("shadow")
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestOperationsFor(t *testing.T) {
	assert.Equal(t,
		[]OperationKind{OpVisible, OpInvisible, OpClickable, OpHas, OpHasNo, OpFetch},
		OperationsFor(KindSingle))
	assert.Equal(t,
		[]OperationKind{OpVisible, OpInvisible, OpHas, OpHasNo, OpFetch},
		OperationsFor(KindMultiSection))
}

func TestMethodName(t *testing.T) {
	tests := []struct {
		op   OperationKind
		kind DescriptorKind
		want string
	}{
		{OpVisible, KindSingle, "wait_until_title_visible"},
		{OpInvisible, KindMulti, "wait_until_title_invisible"},
		{OpClickable, KindFrame, "wait_until_title_to_be_clickable"},
		{OpHas, KindSection, "has_title"},
		{OpHasNo, KindSingle, "has_no_title"},
		{OpFetch, KindSingle, "title_element"},
		{OpFetch, KindSection, "title_element"},
		{OpFetch, KindMulti, "title_elements"},
		{OpFetch, KindMultiSection, "title_elements"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MethodName("title", tt.op, tt.kind))
	}
}

func TestDescriptorKindText(t *testing.T) {
	for _, k := range []DescriptorKind{KindSingle, KindMulti, KindSection, KindMultiSection, KindFrame} {
		text, err := k.MarshalText()
		require.NoError(t, err)

		var back DescriptorKind
		require.NoError(t, back.UnmarshalText(text))
		assert.Equal(t, k, back)
	}

	var k DescriptorKind
	assert.ErrorIs(t, k.UnmarshalText([]byte("widget")), ErrConfiguration)
}

func TestFieldReportJSON(t *testing.T) {
	data, err := json.Marshal(FieldReport{Name: "reviews", Kind: KindMultiSection, Locator: NewLocator(ByCSSSelector, ".review")})
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"name": "reviews",
		"kind": "sections",
		"locator": {"by": "css selector", "selector": ".review"},
		"present": false,
		"visible": false,
		"count": 0,
		"methods": null
	}`, string(data))
}

func TestProbeReportMissing(t *testing.T) {
	r := &ProbeReport{Fields: []FieldReport{
		{Name: "title", Present: true},
		{Name: "banner"},
		{Name: "footer"},
	}}
	assert.Equal(t, []string{"banner", "footer"}, r.Missing())
}
