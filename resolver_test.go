package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDropSlotName(t *testing.T) {
	drop, slot, ok := ParseDropSlotName("ED_DROP07_SLOT12")
	require.True(t, ok)
	assert.Equal(t, 7, drop)
	assert.Equal(t, 12, slot)

	drop, slot, ok = ParseDropSlotName("SA_DROP2_SLOT4_SPARE")
	require.True(t, ok)
	assert.Equal(t, 2, drop)
	assert.Equal(t, 4, slot)

	for _, name := range []string{"PUMP_01", "DROP07SLOT12", "drop07_slot12", "DROP_SLOT"} {
		_, _, ok := ParseDropSlotName(name)
		assert.False(t, ok, name)
	}
}

func TestParseChannelIndex(t *testing.T) {
	valid := map[string]int{"[0]": 0, "[3]": 3, "[31]": 31, "[ 4 ]": 4, "[-1]": -1}
	for name, want := range valid {
		idx, ok := ParseChannelIndex(name)
		require.True(t, ok, name)
		assert.Equal(t, want, idx, name)
	}

	for _, name := range []string{"", "[]", "VALUE", "[a]", "3", "[3", "3]", "[1.5]"} {
		_, ok := ParseChannelIndex(name)
		assert.False(t, ok, name)
	}
}

func TestInstanceElementValueAndAlias(t *testing.T) {
	member := InstanceElement{
		Name: "[0]",
		Elements: []InstanceElement{
			{Name: "STATUS", Attributes: []ElementAttribute{{Name: "Alias", Value: "WRONG"}}},
			{Name: "WRAPPER", Elements: []InstanceElement{
				{Name: "VALUE", Attributes: []ElementAttribute{
					{Name: "Comment", Value: "ignored"},
					{Name: "Alias", Value: "PUMP_01"},
				}},
			}},
			{Name: "VALUE", Attributes: []ElementAttribute{{Name: "Alias", Value: "LATER"}}},
		},
	}

	value, ok := member.Value()
	require.True(t, ok)
	tag, ok := value.Alias()
	require.True(t, ok)
	assert.Equal(t, "PUMP_01", tag)

	_, ok = (&InstanceElement{Name: "[1]"}).Value()
	assert.False(t, ok)
	_, ok = (&InstanceElement{Name: "VALUE"}).Alias()
	assert.False(t, ok)
}

func TestResolveChannelTagsDropSlotTargeting(t *testing.T) {
	catalog := NewModuleCatalog(map[string]int{"CARD4": 4})
	doc := parseXEF(t, xef("Test",
		[]string{moduleXML("CARD4", `\2.7\1.12`)},
		[]string{
			ioVariableXML("ED_DROP07_SLOT12", alias{"[3]", "ACCEPTED"}, alias{"[5]", "DISCARDED"}, alias{"[4]", "EDGE"}),
			ioVariableXML("ED_DROP07_SLOT11", alias{"[0]", "NO_SUCH_SLOT"}),
			ioVariableXML("ED_DROP08_SLOT12", alias{"[0]", "NO_SUCH_DROP"}),
		}))

	ctx := testContext(t)
	matrix, _, err := BuildMatrix(ctx, doc, catalog, MatrixOptions{})
	require.NoError(t, err)

	conflicts := ResolveChannelTags(ctx, doc, matrix)
	assert.Empty(t, conflicts)

	slot := matrix.Slot(7, 12)
	require.Len(t, slot.Channels, 4)
	assert.Equal(t, "ACCEPTED", slot.Channels[3].Tag)
	assert.Equal(t, 4, slot.Channels[3].Number)
	for _, ch := range slot.Channels[:3] {
		assert.Empty(t, ch.Tag)
	}

	// Hardware absent from the topology is never created
	assert.Nil(t, matrix.Slot(7, 11))
	assert.Nil(t, matrix.Slot(8, 12))
	assert.Len(t, matrix, 1)
	assert.Len(t, matrix[7].Slots, 1)
}

func TestResolveChannelTagsLastWins(t *testing.T) {
	doc := parseXEF(t, xef("Test",
		[]string{moduleXML("140ACO02000", `\2.1\1.1`)},
		[]string{
			ioVariableXML("SA_DROP01_SLOT01", alias{"[0]", "FIRST"}, alias{"[1]", "SAME"}),
			ioVariableXML("SA2_DROP01_SLOT01", alias{"[0]", "SECOND"}, alias{"[1]", "SAME"}),
		}))

	ctx := testContext(t)
	matrix, _, err := BuildMatrix(ctx, doc, DefaultModuleCatalog(), MatrixOptions{})
	require.NoError(t, err)

	conflicts := ResolveChannelTags(ctx, doc, matrix)
	assert.Equal(t, "SECOND", matrix.Slot(1, 1).Channels[0].Tag)
	assert.Equal(t, "SAME", matrix.Slot(1, 1).Channels[1].Tag)

	require.Len(t, conflicts, 1)
	assert.Equal(t, TagConflict{
		Drop: 1, Slot: 1, Channel: 1,
		Previous: "FIRST", Current: "SECOND", Variable: "SA2_DROP01_SLOT01",
	}, conflicts[0])
}

func TestResolveChannelTagsNestedMembers(t *testing.T) {
	// Members may sit at any depth below the variable; only bracketed names count.
	body := xef("Test",
		[]string{moduleXML("140ACO02000", `\2.1\1.1`)},
		[]string{`<variables name="SA_DROP01_SLOT01" typeName="T_U_ANA_STD_OUT_4">
	<instanceElementDesc name="ANA_CH_OUT">
		<instanceElementDesc name="GROUP">
			<instanceElementDesc name="[2]">
				<instanceElementDesc name="VALUE"><attribute name="Alias" value="DEEP"></attribute></instanceElementDesc>
			</instanceElementDesc>
		</instanceElementDesc>
		<instanceElementDesc name="CH_1">
			<instanceElementDesc name="VALUE"><attribute name="Alias" value="NOT_INDEXED"></attribute></instanceElementDesc>
		</instanceElementDesc>
		<instanceElementDesc name="[0]">
			<instanceElementDesc name="VALUE"><attribute name="Alias" value=""></attribute></instanceElementDesc>
		</instanceElementDesc>
	</instanceElementDesc>
</variables>`})
	doc := parseXEF(t, body)

	ctx := testContext(t)
	matrix, _, err := BuildMatrix(ctx, doc, DefaultModuleCatalog(), MatrixOptions{})
	require.NoError(t, err)
	ResolveChannelTags(ctx, doc, matrix)

	channels := matrix.Slot(1, 1).Channels
	assert.Equal(t, "DEEP", channels[2].Tag)
	assert.Empty(t, channels[0].Tag)
	assert.Empty(t, channels[1].Tag)
	assert.Empty(t, channels[3].Tag)
}

func TestBindComments(t *testing.T) {
	matrix := HardwareMatrix{
		1: {Number: 1, Slots: map[int]*Slot{
			1: {Number: 1, Model: "CARD", Channels: []*Channel{
				{Number: 1, Tag: "PUMP_01"},
				{Number: 2, Tag: "UNKNOWN_TAG"},
				{Number: 3},
				{Number: 4, Tag: "NO_COMMENT"},
				{Number: 5, Tag: "DUPLICATE"},
			}},
		}},
	}
	records := []VariableRecord{
		{Name: "PUMP_01", Type: "EBOOL", Comment: "Primary feed pump"},
		{Name: "NO_COMMENT", Type: "BOOL"},
		{Name: "DUPLICATE", Type: "BOOL", Comment: "old"},
		{Name: "DUPLICATE", Type: "BOOL", Comment: "new"},
	}

	bound := BindComments(testContext(t), matrix, records)
	assert.Equal(t, 2, bound)

	channels := matrix.Slot(1, 1).Channels
	assert.Equal(t, "Primary feed pump", channels[0].Comment)
	assert.Empty(t, channels[1].Comment)
	assert.Empty(t, channels[2].Comment)
	assert.Empty(t, channels[3].Comment)
	assert.Equal(t, "new", channels[4].Comment)
}

func TestBindCommentsEmptyCatalog(t *testing.T) {
	matrix := HardwareMatrix{
		1: {Number: 1, Slots: map[int]*Slot{1: {Number: 1, Channels: []*Channel{{Number: 1, Tag: "PUMP_01"}}}}},
	}
	assert.Equal(t, 0, BindComments(testContext(t), matrix, nil))
	assert.Empty(t, matrix.Slot(1, 1).Channels[0].Comment)
}
