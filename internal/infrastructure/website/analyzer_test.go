package website_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"website_revolution/internal/infrastructure/website"
)

const modernPage = `<!doctype html>
<html>
<head>
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <meta name="description" content="Fresh roasted coffee in Austin.">
  <title>Bean There | Coffee</title>
</head>
<body>
  <h1>Bean There</h1>
  <img src="/a.jpg" alt="Latte art">
  <img src="/b.jpg">
  <article><p>%TEXT%</p></article>
  <a href="mailto:Hello@Bean.example?subject=hi">Email us</a>
  <a href="https://www.instagram.com/beanthere">Instagram</a>
  <footer>&copy; 2019 - 2024 Bean There. Write to hello@bean.example or logo@2x.png</footer>
</body>
</html>`

const barePage = `<html><body><p>Welcome</p><footer>Copyright 2009</footer></body></html>`

func serve(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	return srv
}

func newAnalyzer() *website.Analyzer {
	return website.NewAnalyzer(website.Config{Timeout: 5 * time.Second, ReqPerSec: 100, Burst: 10})
}

func TestAnalyzeModernSite(t *testing.T) {
	rq := require.New(t)

	text := strings.Repeat("We roast every bean by hand in small batches for our neighbours. ", 20)
	srv := serve(t, http.StatusOK, strings.Replace(modernPage, "%TEXT%", text, 1))

	report := newAnalyzer().Analyze(context.Background(), srv.URL)

	rq.True(report.HasWebsite)
	rq.True(report.Reachable)
	rq.Equal(http.StatusOK, report.StatusCode)
	rq.False(report.HTTPS)
	rq.True(report.HasViewport)
	rq.True(report.HasTitle)
	rq.True(report.HasMetaDescription)
	rq.True(report.HasH1)
	rq.True(report.HasContactPath)
	rq.True(report.HasSocialLinks)
	rq.Equal(2, report.Images)
	rq.Equal(1, report.ImagesMissingAlt)
	rq.Equal(2024, report.CopyrightYear)
	rq.Equal([]string{"hello@bean.example"}, report.Emails)
	rq.Equal("hello@bean.example", report.ContactEmail())
	rq.Greater(report.TextLength, 500)
	rq.Positive(report.LoadTime)
}

func TestAnalyzeBareSite(t *testing.T) {
	rq := require.New(t)

	srv := serve(t, http.StatusOK, barePage)

	report := newAnalyzer().Analyze(context.Background(), srv.URL)

	rq.True(report.Reachable)
	rq.False(report.HasViewport)
	rq.False(report.HasTitle)
	rq.False(report.HasMetaDescription)
	rq.False(report.HasH1)
	rq.False(report.HasContactPath)
	rq.False(report.HasSocialLinks)
	rq.Equal(2009, report.CopyrightYear)
	rq.Empty(report.Emails)
	rq.Less(report.TextLength, 100)
}

func TestAnalyzeUnreachable(t *testing.T) {
	rq := require.New(t)

	srv := serve(t, http.StatusInternalServerError, "oops")

	report := newAnalyzer().Analyze(context.Background(), srv.URL)
	rq.True(report.HasWebsite)
	rq.False(report.Reachable)
	rq.Equal(http.StatusInternalServerError, report.StatusCode)

	closed := httptest.NewServer(http.NotFoundHandler())
	url := closed.URL
	closed.Close()

	report = newAnalyzer().Analyze(context.Background(), url)
	rq.True(report.HasWebsite)
	rq.False(report.Reachable)
	rq.Zero(report.StatusCode)
}

func TestAnalyzeNoWebsite(t *testing.T) {
	rq := require.New(t)

	report := newAnalyzer().Analyze(context.Background(), "  ")
	rq.False(report.HasWebsite)
	rq.False(report.Reachable)
}

func TestAnalyzeAddsScheme(t *testing.T) {
	rq := require.New(t)

	srv := serve(t, http.StatusOK, barePage)
	host := strings.TrimPrefix(srv.URL, "http://")

	report := newAnalyzer().Analyze(context.Background(), host)
	rq.Equal(srv.URL, report.URL)
	rq.True(report.Reachable)
}

func TestHostLimiterWaitURL(t *testing.T) {
	rq := require.New(t)

	hl := website.NewHostLimiter(1, 1)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	rq.NoError(hl.WaitURL(ctx, "https://a.example/x"))
	rq.NoError(hl.WaitURL(ctx, "https://b.example/x"))
	rq.Error(hl.WaitURL(ctx, "https://a.example/y"))
}
