package fcn

import (
	"strings"
	"testing"
)

func TestWriteCSV(t *testing.T) {
	pos := techGiants()
	pos.ProductName = `FCN "Tech" Giants`
	pos.MaturityDate = "2024-07-15"
	orphan := techGiants()
	orphan.ClientID = "gone"

	var sb strings.Builder
	err := WriteCSV(&sb, []Client{{ID: "c1", Name: "王小明"}}, []Position{pos, orphan}, pricesOf("NVDA", 610.5, "AMD", 135.2))
	if err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}
	lines := strings.Split(sb.String(), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), sb.String())
	}
	if lines[0] != strings.Join(CSVHeader, ",") {
		t.Errorf("header = %q", lines[0])
	}
	want := `"王小明","FCN ""Tech"" Giants","GS","USD","100000","12.5","2024-07-15","70","105","100","AMD","135.2","140","140","96.57","Normal"`
	if lines[1] != want {
		t.Errorf("line 1 =\n%s\nwant\n%s", lines[1], want)
	}
	if !strings.HasPrefix(lines[2], `"`+UnknownClientName+`"`) {
		t.Errorf("orphan line = %q", lines[2])
	}
}
