package report

// ReportTemplate is the HTML template for the sentiment report.
const ReportTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Title}}</title>
<style>
  :root {
    --bg: #ffffff;
    --text: #1a1a2e;
    --muted: #6b7280;
    --border: #e5e7eb;
    --accent: #2563eb;
    --green: #16a34a;
    --red: #dc2626;
    --section-bg: #f8fafc;
  }
  * { margin: 0; padding: 0; box-sizing: border-box; }
  body {
    font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
    color: var(--text);
    background: var(--bg);
    line-height: 1.6;
    max-width: 1000px;
    margin: 0 auto;
    padding: 20px;
  }
  h1 { font-size: 1.5rem; margin-bottom: 4px; color: var(--accent); }
  h2 { font-size: 1.2rem; margin: 24px 0 12px; padding-bottom: 6px; border-bottom: 2px solid var(--accent); }
  .muted { color: var(--muted); font-size: 0.85rem; }
  .header { border-bottom: 3px solid var(--accent); padding-bottom: 12px; margin-bottom: 16px; }
  .columns { display: flex; gap: 24px; }
  .columns > div { flex: 1; background: var(--section-bg); padding: 12px; border-radius: 6px; }
  table { width: 100%; border-collapse: collapse; font-size: 0.9rem; }
  th, td { padding: 6px 8px; border-bottom: 1px solid var(--border); text-align: left; vertical-align: top; }
  th { background: var(--section-bg); font-weight: 600; }
  td.num { text-align: right; font-variant-numeric: tabular-nums; }
  .positive { color: var(--green); font-weight: 600; }
  .negative { color: var(--red); font-weight: 600; }
  .neutral { color: var(--muted); }
  .chart { margin: 16px 0; overflow-x: auto; }
  .footer { margin-top: 32px; padding-top: 8px; border-top: 1px solid var(--border); }
</style>
</head>
<body>

<div class="header">
  <h1>{{.Title}}</h1>
  <p class="muted">Generated {{.GeneratedAt}}{{if .Window}} &middot; News from {{.Window}}{{end}}{{if .RunID}} &middot; Run {{.RunID}}{{end}}</p>
</div>

{{if .Rows}}
<h2>Top Movers</h2>
<div class="columns">
  <div>
    <h3>Bullish</h3>
    <table>
    {{range .Bullish}}<tr><td><strong>{{.Ticker}}</strong></td><td class="num {{scoreClass .SentimentScore}}">{{printf "%.2f" .SentimentScore}}</td><td class="num">{{.TotalMentions}}</td></tr>
    {{end}}
    </table>
  </div>
  <div>
    <h3>Bearish</h3>
    <table>
    {{range .Bearish}}<tr><td><strong>{{.Ticker}}</strong></td><td class="num {{scoreClass .SentimentScore}}">{{printf "%.2f" .SentimentScore}}</td><td class="num">{{.TotalMentions}}</td></tr>
    {{end}}
    </table>
  </div>
</div>

<div class="chart">{{.Chart}}</div>

<h2>All Tickers</h2>
<table>
  <tr>
    <th>Ticker</th><th>Score</th><th>Mentions</th><th>Positive</th><th>Negative</th><th>Neutral</th><th>Sample Headlines</th>
  </tr>
  {{range .Rows}}
  <tr>
    <td><strong>{{.Ticker}}</strong></td>
    <td class="num {{scoreClass .SentimentScore}}">{{printf "%.2f" .SentimentScore}}</td>
    <td class="num">{{.TotalMentions}}</td>
    <td class="num">{{.PositiveMentions}}</td>
    <td class="num">{{.NegativeMentions}}</td>
    <td class="num">{{.NeutralMentions}}</td>
    <td>{{.SampleHeadlines}}</td>
  </tr>
  {{end}}
</table>
{{else}}
<p>No tickers were mentioned in the collected news.</p>
{{end}}

<div class="footer muted">newspulse</div>
</body>
</html>
`
