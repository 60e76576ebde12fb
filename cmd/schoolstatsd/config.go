package main

import (
	"fmt"
	"time"

	"edustats-backend/lib/configuration"
	"edustats-backend/lib/scrapers/edugis"
	"edustats-backend/services/schoolstats"
)

type Config struct {
	// defaults to 8111
	Port int `json:"port"`
	// defaults to the MOE statistics portal
	BaseUrl string `json:"base_url"`
	// county selector value, defaults to 花蓮縣
	CityCode string `json:"city_code"`
	// district selector values keyed by district display name, defaults
	// to the display names themselves
	DistrictCodes map[string]string `json:"district_codes"`
	// per-request timeout, defaults to 30s
	TimeoutSeconds int `json:"timeout_seconds"`
	// retries after the first failed attempt, defaults to 3
	RetryCount int `json:"retry_count"`
	// defaults to 60
	CacheTtlMinutes int `json:"cache_ttl_minutes"`
	// optional persistence of successful runs
	Database *configuration.Database `json:"database"`
	// optional failure alert mail
	Smtp *schoolstats.SmtpConfig `json:"smtp"`
}

func (c Config) port() int {
	if c.Port == 0 {
		return 8111
	}
	return c.Port
}

func (c Config) baseUrl() string {
	if c.BaseUrl == "" {
		return "https://stats.moe.gov.tw"
	}
	return c.BaseUrl
}

func (c Config) cacheTtl() time.Duration {
	if c.CacheTtlMinutes == 0 {
		return time.Hour
	}
	return time.Duration(c.CacheTtlMinutes) * time.Minute
}

func (c Config) districtCodes() (map[edugis.District]string, error) {
	codes := map[edugis.District]string{}
	for name, code := range c.DistrictCodes {
		district, ok := edugis.ParseDistrict(name)
		if !ok {
			return nil, fmt.Errorf("unknown district in config: %q", name)
		}
		codes[district] = code
	}
	return codes, nil
}
