package retailers

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	ConfigUserAgentKey      = "user_agent"
	ConfigAcceptKey         = "accept"
	ConfigAcceptLanguageKey = "accept_language"
	ConfigCacheControlKey   = "cache_control"

	ConfigLinkSelectorKey     = "link_selector"
	ConfigURLDatePatternKey   = "url_date_pattern"
	ConfigValidityDaysKey     = "validity_days"
	ConfigWrapperSelectorKey  = "wrapper_selector"
	ConfigItemSelectorKey     = "item_selector"
	ConfigCaptionSelectorKey  = "caption_selector"
	ConfigCaptionKey          = "caption"
	ConfigValiditySelectorKey = "validity_selector"
	ConfigImageSelectorKey    = "image_selector"
	ConfigDateOrderKey        = "date_order"
	ConfigURLTemplateKey      = "url_template"
	ConfigImageTemplateKey    = "image_template"
	ConfigReleaseWeekdayKey   = "release_weekday"
	ConfigWeeksBackKey        = "weeks_back"
	ConfigWeeksAheadKey       = "weeks_ahead"
	ConfigProbeKey            = "probe"
	ConfigSourceKey           = "source"
	ConfigRenderKey           = "render"
)

// ConfigString returns the trimmed string value for key from retailer.Config or a fallback.
func ConfigString(r Retailer, key, fallback string) string {
	if r.Config != nil {
		if raw, ok := r.Config[key]; ok {
			if val, ok := raw.(string); ok {
				if trimmed := strings.TrimSpace(val); trimmed != "" {
					return trimmed
				}
			}
		}
	}
	return fallback
}

// ConfigInt returns the integer value for key. YAML ints, JSON numbers and numeric strings
// are accepted; a present but non-numeric value is an error.
func ConfigInt(r Retailer, key string, fallback int) (int, error) {
	raw, ok := r.Config[key]
	if !ok || raw == nil {
		return fallback, nil
	}
	switch v := raw.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if v != float64(int(v)) {
			return 0, fmt.Errorf("config.%s must be a whole number, got %v", key, v)
		}
		return int(v), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, fmt.Errorf("config.%s: %w", key, err)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("config.%s has unsupported type %T", key, raw)
	}
}

// ConfigBool returns the boolean value for key or fallback when absent or unparseable.
func ConfigBool(r Retailer, key string, fallback bool) bool {
	raw, ok := r.Config[key]
	if !ok || raw == nil {
		return fallback
	}
	switch v := raw.(type) {
	case bool:
		return v
	case string:
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return b
		}
	}
	return fallback
}

// Headers builds the common request headers from a retailer config (skips empty values).
func Headers(r Retailer) map[string]string {
	headers := make(map[string]string, 4)

	if v := ConfigString(r, ConfigUserAgentKey, ""); v != "" {
		headers["User-Agent"] = v
	}
	if v := ConfigString(r, ConfigAcceptKey, ""); v != "" {
		headers["Accept"] = v
	}
	if v := ConfigString(r, ConfigAcceptLanguageKey, ""); v != "" {
		headers["Accept-Language"] = v
	}
	if v := ConfigString(r, ConfigCacheControlKey, ""); v != "" {
		headers["Cache-Control"] = v
	}

	return headers
}

func validityDays(r Retailer) (int, error) {
	days, err := ConfigInt(r, ConfigValidityDaysKey, defaultValidityDays)
	if err != nil {
		return 0, err
	}
	if days < 1 {
		return 0, fmt.Errorf("config.%s must be at least 1, got %d", ConfigValidityDaysKey, days)
	}
	return days, nil
}
