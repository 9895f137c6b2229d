package cmd

import (
	"bytes"
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/etnz/fcn"
	"github.com/google/subcommands"
)

// useTempBook points the global flags to a fresh book in a temp dir.
func useTempBook(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "book.json")
	oldBook, oldConfig := bookFile, configFile
	empty := ""
	bookFile, configFile = &path, &empty
	t.Cleanup(func() { bookFile, configFile = oldBook, oldConfig })
	return path
}

// run executes c with args and input, and returns its output.
func run(t *testing.T, c subcommands.Command, input string, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	oldOut, oldIn := stdout, stdin
	stdout, stdin = &out, strings.NewReader(input)
	defer func() { stdout, stdin = oldOut, oldIn }()

	f := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	c.SetFlags(f)
	if err := f.Parse(args); err != nil {
		t.Fatalf("%s: Parse(%q) error = %v", c.Name(), args, err)
	}
	if status := c.Execute(context.Background(), f); status != subcommands.ExitSuccess {
		t.Fatalf("%s %q: status = %v, output:\n%s", c.Name(), args, status, out.String())
	}
	return out.String()
}

func TestBookWorkflow(t *testing.T) {
	path := useTempBook(t)

	run(t, &clientCmd{}, "", "add", "王小明")
	out := run(t, &addCmd{}, "", "-c", "王小明", "-p", "FCN Tech", "-n", "120000", "-coupon", "10", "-ki", "60", "NVDA:100", "AMD:50")
	if !strings.Contains(out, "#1 FCN Tech") {
		t.Errorf("add output = %q", out)
	}

	out = run(t, &pricesCmd{}, "NVDA 55\nAMD 60\n")
	if !strings.Contains(out, "2") {
		t.Errorf("prices output = %q", out)
	}

	report := run(t, &reportCmd{}, "", "-c", "王小明", "-format", "md")
	for _, want := range []string{"FCN Tech", "KI HIT", "55.00%", "$1,000.00"} {
		if !strings.Contains(report, want) {
			t.Errorf("report does not contain %q:\n%s", want, report)
		}
	}

	csv := run(t, &exportCmd{}, "")
	if !strings.HasPrefix(csv, fcn.BOM) {
		t.Errorf("export does not start with a BOM: %q", csv)
	}
	if !strings.Contains(csv, `"王小明","FCN Tech"`) {
		t.Errorf("export = %q", csv)
	}

	run(t, &rmCmd{}, "", "#1")
	b, err := fcn.LoadBook(path)
	if err != nil {
		t.Fatalf("LoadBook() error = %v", err)
	}
	if n := len(b.Positions("")); n != 0 {
		t.Errorf("positions after rm = %d, want 0", n)
	}
	if _, ok := b.FindClient("王小明"); !ok {
		t.Errorf("client 王小明 is missing")
	}
}

func TestShareAndOpen(t *testing.T) {
	useTempBook(t)
	run(t, &addCmd{}, "", "-p", "FCN Chips", "-n", "50000", "-coupon", "12", "TSM:100")
	run(t, &pricesCmd{}, "TSM 120\n")

	link := strings.TrimSpace(run(t, &shareCmd{}, "", "-c", fcn.DefaultClientName))
	if !strings.Contains(link, "#share=") {
		t.Fatalf("share link = %q", link)
	}
	report := run(t, &openCmd{}, "", "-format", "md", link)
	for _, want := range []string{"FCN Chips", "KO Ready", "120.00%"} {
		if !strings.Contains(report, want) {
			t.Errorf("opened report does not contain %q:\n%s", want, report)
		}
	}

	file := filepath.Join(t.TempDir(), "share.json")
	run(t, &shareCmd{}, "", "-c", fcn.DefaultClientName, "-o", file)
	report = run(t, &openCmd{}, "", "-format", "md", file)
	if !strings.Contains(report, "FCN Chips") {
		t.Errorf("report from file:\n%s", report)
	}
}

func TestImportFile(t *testing.T) {
	useTempBook(t)
	sheet := "FCN 部位表\n" +
		"投資人,產品名稱,幣別,名目本金,年息(%),到期日,連結標的\n" +
		"Alice,FCN A,usd,\"100,000\",12%,2025/12/31,NVDA:500/AMD:150\n" +
		"Bob,FCN B,JPY,\"¥3,000,000\",8,2026/3/31,7203.T:3000\n"
	file := filepath.Join(t.TempDir(), "sheet.csv")
	if err := os.WriteFile(file, []byte(sheet), 0o644); err != nil {
		t.Fatal(err)
	}

	out := run(t, &importCmd{}, "", file)
	if !strings.Contains(out, "2 position(s) for 2 client(s)") {
		t.Errorf("import output = %q", out)
	}
	out = run(t, &clientCmd{}, "", "ls")
	for _, want := range []string{"Alice", "Bob"} {
		if !strings.Contains(out, want) {
			t.Errorf("client ls does not contain %q:\n%s", want, out)
		}
	}
}

func TestImportRejectsSheetWithoutHeader(t *testing.T) {
	path := useTempBook(t)
	run(t, &addCmd{}, "", "-p", "Keep me", "NVDA")

	var out bytes.Buffer
	oldOut, oldIn := stdout, stdin
	stdout, stdin = &out, strings.NewReader("a,b,c\n1,2,3\n")
	defer func() { stdout, stdin = oldOut, oldIn }()
	c := &importCmd{}
	f := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	c.SetFlags(f)
	if status := c.Execute(context.Background(), f); status != subcommands.ExitFailure {
		t.Fatalf("status = %v, want ExitFailure", status)
	}

	b, err := fcn.LoadBook(path)
	if err != nil {
		t.Fatalf("LoadBook() error = %v", err)
	}
	if n := len(b.Positions("")); n != 1 {
		t.Errorf("positions = %d, want the book unchanged", n)
	}
}

func TestSyncWithoutSheet(t *testing.T) {
	useTempBook(t)
	c := &syncCmd{}
	f := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	c.SetFlags(f)
	if status := c.Execute(context.Background(), f); status != subcommands.ExitFailure {
		t.Errorf("status = %v, want ExitFailure", status)
	}
}
