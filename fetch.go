package savings

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/PaesslerAG/jsonpath"
)

// This file contains functions to access the remote exchange-rate providers.

const exchangeAPIKeyEnv = "EXCHANGE_API_KEY"

var exchangeAPIFlag = flag.String("exchange-api-key", "", "exchangerate-api.com key used to fetch the USD/INR rate.\n If missing it will read the environment variable \""+exchangeAPIKeyEnv+"\". You can get one at https://www.exchangerate-api.com/")

func exchangeAPIKey() string {
	// If the flag is not set, we try to read it from the environment variable.
	if *exchangeAPIFlag == "" {
		*exchangeAPIFlag = os.Getenv(exchangeAPIKeyEnv)
	}
	return *exchangeAPIFlag
}

// Provider endpoints, variables so tests can point them at a local server.
var (
	exchangeRateAPIBase = "https://v6.exchangerate-api.com/v6"
	openERAPIBase       = "https://open.er-api.com/v6"
)

// jwget performs an HTTP GET request and unmarshals the JSON response into
// the provided data structure.
func jwget(ctx context.Context, client *http.Client, addr string, data any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	if resp.StatusCode != 200 {
		return fmt.Errorf("cannot http GET %v/%v: %v", resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	}
	var buf bytes.Buffer
	_, err = io.Copy(&buf, resp.Body)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return json.Unmarshal(buf.Bytes(), data)
}

// jpathFloat extracts a single float value from a decoded JSON document.
func jpathFloat(jobj any, path string) (float64, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return 0, fmt.Errorf("error parsing %q: %w", path, err)
	}
	// because jsonpath is never clear about whether it returns a list of 1
	// answer, or a single answer: by this call I keep the first one if any
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	val, ok := jval.(float64)
	if !ok {
		return 0, fmt.Errorf("value at %q is not a number: %v", path, jval)
	}
	return val, nil
}

// fetchUSDINR queries the remote providers for the current USD to INR rate.
//
// With an API key it asks exchangerate-api.com's pair endpoint and reads the
// numeric "conversion_rate" field; without a key, or when the keyed provider
// fails, it falls back to the keyless open.er-api.com latest endpoint.
func fetchUSDINR(ctx context.Context, client *http.Client) (float64, error) {
	var keyedErr error
	if key := exchangeAPIKey(); key != "" {
		addr := fmt.Sprintf("%s/%s/pair/%s/%s", exchangeRateAPIBase, key, USD, INR)
		var jobj any
		keyedErr = jwget(ctx, client, addr, &jobj)
		if keyedErr == nil {
			var rate float64
			rate, keyedErr = jpathFloat(jobj, "$.conversion_rate")
			if keyedErr == nil && rate > 0 {
				return rate, nil
			}
		}
	}

	addr := fmt.Sprintf("%s/latest/%s", openERAPIBase, USD)
	var jobj any
	if err := jwget(ctx, client, addr, &jobj); err != nil {
		if keyedErr != nil {
			return 0, fmt.Errorf("all rate providers failed: %v; %w", keyedErr, err)
		}
		return 0, err
	}
	rate, err := jpathFloat(jobj, "$.rates.INR")
	if err != nil {
		return 0, err
	}
	if rate <= 0 {
		return 0, fmt.Errorf("provider returned a non-positive USD/%s rate: %v", INR, rate)
	}
	return rate, nil
}
