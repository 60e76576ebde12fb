package edugis

import (
	"bytes"
	"context"
	"fmt"
	"net/http/cookiejar"
	"net/url"
	"time"

	"edustats-backend/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const landingPath = "/edugissys/default.aspx"

// Client replicates the browser request sequence against the MOE
// statistics portal: GET the landing page, echo its hidden form state
// in a POST that also carries the district selection.
type Client struct {
	BaseUrl *url.URL
	Http    *resty.Client

	cityCode      string
	districtCodes map[District]string
}

type ClientOptions struct {
	BaseUrl string
	// value submitted as the county selector, defaults to 花蓮縣
	CityCode string
	// values submitted as the district selector, keyed by district,
	// defaults to the district display names
	DistrictCodes map[District]string
	// per-request timeout, defaults to 30s
	Timeout time.Duration
	// attempts after the first failure, defaults to 3
	RetryCount int
}

func NewClient(opts ClientOptions) (*Client, error) {
	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}
	if opts.CityCode == "" {
		opts.CityCode = "花蓮縣"
	}
	if opts.DistrictCodes == nil {
		opts.DistrictCodes = map[District]string{}
	}
	for _, d := range Districts {
		if opts.DistrictCodes[d] == "" {
			opts.DistrictCodes[d] = d.String()
		}
	}
	if opts.Timeout == 0 {
		opts.Timeout = time.Second * 30
	}
	if opts.RetryCount == 0 {
		opts.RetryCount = 3
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseUrl)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(baseUrl.Hostname()))
	client.SetTimeout(opts.Timeout)
	client.SetRetryCount(opts.RetryCount)
	client.SetRetryWaitTime(time.Second)
	client.SetRetryMaxWaitTime(time.Second * 5)
	client.AddRetryCondition(func(res *resty.Response, err error) bool {
		return err != nil || res.StatusCode() >= 500
	})

	telemetry.InstrumentResty(client, "edustats.lib.scrapers.edugis.http")

	return &Client{
		BaseUrl:       baseUrl,
		Http:          client,
		cityCode:      opts.CityCode,
		districtCodes: opts.DistrictCodes,
	}, nil
}

// FetchDistrict runs the full query sequence for one district and
// returns the raw results page. The hidden form state never outlives
// this call.
func (c *Client) FetchDistrict(ctx context.Context, district District) (string, error) {
	ctx, span := tracer.Start(ctx, "client:FetchDistrict")
	defer span.End()
	span.SetAttributes(attribute.String("district", district.String()))

	res, err := c.Http.R().
		SetContext(ctx).
		Get(landingPath)
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch landing page")
		return "", fmt.Errorf("%w: %s", ErrNetwork, err)
	}
	if res.IsError() {
		span.SetStatus(codes.Error, "landing page returned non-success status")
		return "", fmt.Errorf("%w: landing page status %d", ErrNetwork, res.StatusCode())
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		span.SetStatus(codes.Error, "failed to parse landing page html")
		return "", fmt.Errorf("%w: %s", ErrFormState, err)
	}
	state, err := ExtractFormState(doc)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to extract form state")
		return "", err
	}

	form := map[string]string{}
	for name, value := range state {
		form[name] = value
	}
	// the fields a browser submission of the 行政區域查詢 form carries
	form["CityName"] = c.cityCode
	form["DistName"] = c.districtCodes[district]
	form["lv"] = "1"
	form["btnSearch"] = "學校搜尋"

	res, err = c.Http.R().
		SetContext(ctx).
		SetFormData(form).
		Post(landingPath)
	if err != nil {
		span.SetStatus(codes.Error, "query submission failed")
		return "", fmt.Errorf("%w: %s", ErrNetwork, err)
	}
	if res.IsError() {
		span.SetStatus(codes.Error, "query submission returned non-success status")
		return "", fmt.Errorf("%w: query status %d", ErrNetwork, res.StatusCode())
	}

	body := res.String()
	resultsDoc, err := goquery.NewDocumentFromReader(bytes.NewBufferString(body))
	if err != nil {
		span.SetStatus(codes.Error, "failed to parse results html")
		return "", fmt.Errorf("%w: %s", ErrUnexpectedContent, err)
	}
	if !hasResultsSection(resultsDoc) {
		span.SetStatus(codes.Error, "results section missing")
		return "", fmt.Errorf("%w: district %s", ErrUnexpectedContent, district)
	}

	span.SetAttributes(attribute.Int("response_length", len(body)))
	return body, nil
}
