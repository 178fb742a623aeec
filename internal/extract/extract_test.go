package extract_test

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonesrussell/matchcrawl/internal/domain"
	"github.com/jonesrussell/matchcrawl/internal/extract"
)

const venuePageHTML = `
<html><body>
<table><tr><td>得点</td><td>2 - 1</td></tr></table>
<table>
  <tr><td>スタジアム</td><td>埼玉スタジアム</td></tr>
  <tr><td>入場者数</td><td>45,123人</td></tr>
  <tr><td>天候 / 気温 / 湿度</td><td>晴 / 25℃ / 60%</td></tr>
  <tr><td>ピッチ</td><td>全面良芝</td></tr>
</table>
</body></html>`

const oddCellsHTML = `
<html><body>
<table>
  <tr><td>スタジアム</td><td>カシマスタジアム</td><td>入場者数</td></tr>
</table>
</body></html>`

const subInfoHTML = `
<html><body>
<ul class="game-sub-info">
  <li>관중수 : 10,519</li>
  <li>경기장 : 울산문수축구경기장</li>
  <li>날씨 : 맑음</li>
  <li>온도 : 25°C</li>
  <li>습도 : 60%</li>
  <li>중계 : TV</li>
</ul>
</body></html>`

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}

	return doc
}

func assertField(t *testing.T, record domain.RawRecord, key, want string) {
	t.Helper()

	got, ok := record[key]
	if !ok {
		t.Fatalf("field %q not extracted, record: %v", key, record)
	}
	if got != want {
		t.Errorf("field %q = %q, want %q", key, got, want)
	}
}

func TestTableWithMarker(t *testing.T) {
	doc := mustDoc(t, venuePageHTML)

	table := extract.TableWithMarker(doc, "スタジアム")
	if table == nil {
		t.Fatal("expected to find the venue table")
	}
	if !strings.Contains(table.Text(), "入場者数") {
		t.Error("found the wrong table")
	}

	if got := extract.TableWithMarker(doc, "トラッキング"); got != nil {
		t.Error("expected nil for an absent marker")
	}
}

func TestPairedCells(t *testing.T) {
	doc := mustDoc(t, venuePageHTML)
	table := extract.TableWithMarker(doc, "スタジアム")

	fields := domain.FieldMap{
		"スタジアム":        "stadium",
		"入場者数":         "attendance",
		"天候 / 気温 / 湿度": "weather_info",
	}

	record := extract.PairedCells(table, fields)

	assertField(t, record, "stadium", "埼玉スタジアム")
	assertField(t, record, "attendance", "45,123人")
	assertField(t, record, "weather_info", "晴 / 25℃ / 60%")

	// Labels outside the field map are dropped.
	if _, ok := record["ピッチ"]; ok {
		t.Error("unmapped label should not be extracted")
	}
}

func TestPairedCellsUnpairedTrailingCell(t *testing.T) {
	doc := mustDoc(t, oddCellsHTML)
	table := extract.TableWithMarker(doc, "スタジアム")

	record := extract.PairedCells(table, domain.FieldMap{
		"スタジアム": "stadium",
		"入場者数":  "attendance",
	})

	assertField(t, record, "stadium", "カシマスタジアム")
	if _, ok := record["attendance"]; ok {
		t.Error("trailing cell without a value should be discarded")
	}
}

func TestPairedCellsNilTable(t *testing.T) {
	record := extract.PairedCells(nil, domain.FieldMap{"スタジアム": "stadium"})
	if len(record) != 0 {
		t.Errorf("expected empty record, got %v", record)
	}
}

func TestColonList(t *testing.T) {
	doc := mustDoc(t, subInfoHTML)

	rules := []extract.ColonRule{
		{Contains: "관중수", Key: "attendance", Strip: []string{","}},
		{Contains: "경기장", Key: "stadium"},
		{Contains: "날씨", Key: "weather"},
		{Contains: "온도", Key: "temperature", Strip: []string{"°C"}},
		{Contains: "습도", Key: "humidity", Strip: []string{"%"}},
	}

	var unmatched []string
	record := extract.ColonList(doc.Find("ul.game-sub-info li"), rules, func(text string) {
		unmatched = append(unmatched, text)
	})

	assertField(t, record, "attendance", "10519")
	assertField(t, record, "stadium", "울산문수축구경기장")
	assertField(t, record, "weather", "맑음")
	assertField(t, record, "temperature", "25")
	assertField(t, record, "humidity", "60")

	if len(unmatched) != 1 || !strings.Contains(unmatched[0], "중계") {
		t.Errorf("expected the broadcast item to be reported unmatched, got %v", unmatched)
	}
}
