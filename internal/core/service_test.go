package core

import (
	"bytes"
	"context"
	"errors"
	"html"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newTestService(t *testing.T, opts Options) *Service {
	t.Helper()
	if opts.Rules.Len() == 0 {
		opts.Rules = DefaultRules()
	}
	svc, err := NewService(opts)
	require.NoError(t, err)
	return svc
}

const roundTripCSV = "Exporter_name_app,Country,Location,IP Address,Hostname\n" +
	"exporter_aes-prod,US,NYC,10.0.0.1,host1\n"

func TestService_ConvertCSV(t *testing.T) {
	svc := newTestService(t, Options{})

	doc, err := svc.Convert(context.Background(), ConvertRequest{
		Filename: "inventory.csv",
		Group:    "Acme",
		Body:     strings.NewReader(roundTripCSV),
	})
	require.NoError(t, err)

	assert.Equal(t, "bookmarks_Acme.html", doc.Filename)
	assert.Equal(t, "Acme", doc.Group)
	assert.Equal(t, 1, doc.Rows)
	assert.Equal(t, 1, doc.Records)
	assert.Contains(t, string(doc.Content), `<DT><A HREF="https://10.0.0.1">aes-host1</A>`)
	assert.Contains(t, string(doc.Content), "<DT><H3>Acme</H3>")
}

func TestService_ConvertXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"Exporter_name_app_2", "Country", "Location", "IP Address", "Hostname"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"exporter_avayasbc", "UK", "London", "10.1.1.1", "sbc-lon"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	svc := newTestService(t, Options{})
	doc, err := svc.Convert(context.Background(), ConvertRequest{
		Filename: "Inventory.XLSX",
		Group:    "Ops",
		Body:     bytes.NewReader(buf.Bytes()),
	})
	require.NoError(t, err)

	assert.Contains(t, string(doc.Content), `<DT><A HREF="https://10.1.1.1">avayasbc-sbc-lon</A>`)
}

func TestService_ConvertNoMatches(t *testing.T) {
	svc := newTestService(t, Options{})

	doc, err := svc.Convert(context.Background(), ConvertRequest{
		Filename: "inventory.csv",
		Group:    "Acme",
		Body:     strings.NewReader("Exporter_name_app,Country\nnode_exporter,US\n"),
	})
	require.NoError(t, err)

	assert.Equal(t, 0, doc.Records)
	assert.Equal(t, GenerateBookmarks(BuildTree(nil), DefaultRules()), string(doc.Content))
}

// bodyGuard fails the test if the pipeline reads the upload.
type bodyGuard struct{ t *testing.T }

func (g bodyGuard) Read([]byte) (int, error) {
	assert.Fail(g.t, "body read before request validation")
	return 0, errors.New("unexpected read")
}

func TestService_ConvertUsageErrors(t *testing.T) {
	svc := newTestService(t, Options{})

	tests := []struct {
		name     string
		filename string
		group    string
	}{
		{name: "unsupported extension", filename: "report.pdf", group: "Acme"},
		{name: "empty filename", filename: "", group: "Acme"},
		{name: "no extension", filename: "inventory", group: "Acme"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Convert(context.Background(), ConvertRequest{
				Filename: tt.filename,
				Group:    tt.group,
				Body:     bodyGuard{t},
			})
			assert.Equal(t, KindUsage, Classify(err), "err = %v", err)
		})
	}

	_, err := svc.Convert(context.Background(), ConvertRequest{Filename: "a.csv", Group: "G"})
	assert.Equal(t, KindUsage, Classify(err))
}

func TestService_ConvertGroupVerbatim(t *testing.T) {
	svc := newTestService(t, Options{})

	for _, group := range []string{"", "  ", "R&D <EU>"} {
		doc, err := svc.Convert(context.Background(), ConvertRequest{
			Filename: "inventory.csv",
			Group:    group,
			Body:     strings.NewReader(roundTripCSV),
		})
		require.NoError(t, err, "group %q", group)

		assert.Equal(t, "bookmarks_"+group+".html", doc.Filename)
		assert.Equal(t, 1, doc.Records)
		assert.Contains(t, string(doc.Content), "<DT><H3>"+html.EscapeString(group)+"</H3>")
	}
}

func TestService_ConvertParseAndFieldErrors(t *testing.T) {
	svc := newTestService(t, Options{})

	_, err := svc.Convert(context.Background(), ConvertRequest{
		Filename: "inventory.xlsx",
		Group:    "G",
		Body:     strings.NewReader("not a workbook"),
	})
	assert.Equal(t, KindParse, Classify(err))

	_, err = svc.Convert(context.Background(), ConvertRequest{
		Filename: "inventory.csv",
		Group:    "G",
		Body:     strings.NewReader("Exporter_name_app,Country,Location\nexporter_aes,US,NYC\n"),
	})
	assert.Equal(t, KindMissingField, Classify(err))
}

func TestService_Deduplicate(t *testing.T) {
	input := "Exporter_name_app,Exporter_name_app_2,Country,Location,IP Address\n" +
		"exporter_acm,exporter_acm,US,NYC,10.0.0.1\n"

	for _, tt := range []struct {
		dedupe bool
		want   int
	}{{false, 2}, {true, 1}} {
		svc := newTestService(t, Options{Deduplicate: tt.dedupe})
		doc, err := svc.Convert(context.Background(), ConvertRequest{
			Filename: "inv.csv",
			Group:    "G",
			Body:     strings.NewReader(input),
		})
		require.NoError(t, err)
		assert.Equal(t, tt.want, doc.Records, "dedupe=%v", tt.dedupe)
	}
}

func TestService_CustomExporters(t *testing.T) {
	svc := newTestService(t, Options{Exporters: []string{"exporter_ems"}})

	doc, err := svc.Convert(context.Background(), ConvertRequest{
		Filename: "inv.csv",
		Group:    "G",
		Body:     strings.NewReader("Exporter_name_app,Country,Location,IP Address,Hostname\nexporter_ems,US,NYC,10.0.0.2,e1\n"),
	})
	require.NoError(t, err)

	assert.Contains(t, string(doc.Content), `HREF="https://10.0.0.2/sbc">ems-e1<`)
	assert.Equal(t, []string{"exporter_ems"}, svc.Exporters())
}

func TestNewService_RejectsEmptyToken(t *testing.T) {
	_, err := NewService(Options{Exporters: []string{"exporter_aes", " "}})
	assert.Error(t, err)
}

func TestService_Busy(t *testing.T) {
	svc := newTestService(t, Options{MaxConcurrent: 1, MaxWait: 20 * time.Millisecond})

	release, err := svc.limiter.Acquire(context.Background())
	require.NoError(t, err)
	defer release()

	_, err = svc.Convert(context.Background(), ConvertRequest{
		Filename: "inv.csv",
		Group:    "G",
		Body:     strings.NewReader(roundTripCSV),
	})
	assert.ErrorIs(t, err, ErrTooManyConversions)
	assert.Equal(t, KindBusy, Classify(err))
	assert.Equal(t, 1, svc.LimiterStatus().Active)
}

func TestDocumentFilename(t *testing.T) {
	assert.Equal(t, "bookmarks_Acme Corp.html", DocumentFilename("Acme Corp"))
}

func TestClassify(t *testing.T) {
	assert.Equal(t, KindUnknown, Classify(nil))
	assert.Equal(t, KindUnknown, Classify(errors.New("boom")))
}
