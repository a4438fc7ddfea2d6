package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

const (
	baseURL      = "http://127.0.0.1:8000"
	numWorkers   = 20
	testDuration = 10 * time.Second
	numEntries   = 200
	numClients   = 5000
)

var httpClient = &http.Client{
	Timeout: 10 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:        200,
		MaxIdleConnsPerHost: 200,
		IdleConnTimeout:     30 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   2 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	},
}

type result struct {
	endpoint string
	status   int
	latency  time.Duration
	err      bool
}

type stats struct {
	count     int64
	errors    int64
	latencies []time.Duration
}

// clientSeq hands every conversion its own address and fingerprint so the
// daily limit does not turn the test into a 429 benchmark. The addresses are
// sent as X-Forwarded-For, so run the server with rateLimit.trustProxy set.
var clientSeq atomic.Int64

func main() {
	fmt.Println("=== f2g Load Test ===")
	fmt.Printf("Workers: %d | Duration: %s | Entries per file: %d\n\n", numWorkers, testDuration, numEntries)

	fmt.Print("Waiting for server... ")
	for i := 0; i < 30; i++ {
		resp, err := httpClient.Get(baseURL + "/health")
		if err == nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			break
		}
		if i == 29 {
			fmt.Println("FAILED: server not responding")
			return
		}
		time.Sleep(200 * time.Millisecond)
	}
	fmt.Println("OK")

	payload := takeoutFile(numEntries)

	fmt.Println("\n--- Phase 1: Upload + validate ---")
	runPhase(testDuration, func() []result {
		c := nextClient()
		id, r := doUpload(payload, c)
		if id == "" {
			return []result{r}
		}
		return []result{r, doValidate(id, c)}
	})

	fmt.Println("\n--- Phase 2: Full conversion flow ---")
	runPhase(testDuration, func() []result {
		c := nextClient()
		id, up := doUpload(payload, c)
		if id == "" {
			return []result{up}
		}
		urls, conv := doConvert(id, c)
		out := []result{up, conv}
		for _, u := range urls {
			out = append(out, doDownload(u, c))
		}
		return out
	})
}

type client struct {
	ip          string
	fingerprint string
}

func nextClient() client {
	n := clientSeq.Add(1) % numClients
	return client{
		ip:          fmt.Sprintf("10.%d.%d.%d", n>>16&0xff, n>>8&0xff, n&0xff),
		fingerprint: fmt.Sprintf("load-%d-%d", n, time.Now().UnixNano()),
	}
}

func takeoutFile(n int) []byte {
	start := time.Date(2024, 6, 1, 7, 30, 0, 0, time.UTC)
	entries := make([]map[string]any, n)
	for i := range entries {
		ts := start.Add(time.Duration(i) * 24 * time.Hour)
		entries[i] = map[string]any{
			"logId":  ts.UnixMilli(),
			"weight": 180 - float64(i%20)/10,
			"fat":    20 + float64(i%5)/10,
			"date":   ts.Format("01/02/06"),
			"time":   ts.Format("15:04:05"),
			"source": "Aria",
		}
	}
	data, _ := json.Marshal(entries)
	return data
}

func doUpload(payload []byte, c client) (string, result) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, _ := mw.CreateFormFile("files", "weight-2024-06-01.json")
	part.Write(payload)
	mw.Close()

	req, _ := http.NewRequest(http.MethodPost, baseURL+"/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("X-Forwarded-For", c.ip)

	start := time.Now()
	resp, err := httpClient.Do(req)
	lat := time.Since(start)
	if err != nil {
		return "", result{"POST /upload", 0, lat, true}
	}
	defer resp.Body.Close()
	var up struct {
		UploadID string `json:"upload_id"`
	}
	json.NewDecoder(resp.Body).Decode(&up)
	return up.UploadID, result{"POST /upload", resp.StatusCode, lat, resp.StatusCode != http.StatusOK}
}

func doValidate(uploadID string, c client) result {
	req, _ := http.NewRequest(http.MethodPost, baseURL+"/validate?upload_id="+uploadID, nil)
	req.Header.Set("X-Forwarded-For", c.ip)

	start := time.Now()
	resp, err := httpClient.Do(req)
	lat := time.Since(start)
	if err != nil {
		return result{"POST /validate", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"POST /validate", resp.StatusCode, lat, resp.StatusCode != http.StatusOK}
}

func doConvert(uploadID string, c client) ([]string, result) {
	body, _ := json.Marshal(map[string]any{
		"upload_id": uploadID,
		"fingerprint": map[string]string{
			"fingerprint_hash":  c.fingerprint,
			"user_agent":        "f2g-loadtest",
			"screen_resolution": "1920x1080",
			"timezone":          "UTC",
		},
	})
	req, _ := http.NewRequest(http.MethodPost, baseURL+"/convert", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Forwarded-For", c.ip)

	start := time.Now()
	resp, err := httpClient.Do(req)
	lat := time.Since(start)
	if err != nil {
		return nil, result{"POST /convert", 0, lat, true}
	}
	defer resp.Body.Close()
	var conv struct {
		DownloadURLs []string `json:"download_urls"`
	}
	json.NewDecoder(resp.Body).Decode(&conv)
	return conv.DownloadURLs, result{"POST /convert", resp.StatusCode, lat, resp.StatusCode != http.StatusOK}
}

func doDownload(url string, c client) result {
	req, _ := http.NewRequest(http.MethodGet, baseURL+url, nil)
	req.Header.Set("X-Forwarded-For", c.ip)

	start := time.Now()
	resp, err := httpClient.Do(req)
	lat := time.Since(start)
	if err != nil {
		return result{"GET /download", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"GET /download", resp.StatusCode, lat, resp.StatusCode != http.StatusOK}
}

func runPhase(duration time.Duration, workFn func() []result) {
	results := make(chan result, 10000)
	var wg sync.WaitGroup
	stop := make(chan struct{})

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
					for _, r := range workFn() {
						results <- r
					}
				}
			}
		}()
	}

	allResults := make(map[string]*stats)
	done := make(chan struct{})
	go func() {
		for r := range results {
			s, ok := allResults[r.endpoint]
			if !ok {
				s = &stats{}
				allResults[r.endpoint] = s
			}
			s.count++
			if r.err {
				s.errors++
			}
			s.latencies = append(s.latencies, r.latency)
		}
		close(done)
	}()

	time.Sleep(duration)
	close(stop)
	wg.Wait()
	close(results)
	<-done

	printResults(allResults, duration)
}

func printResults(allResults map[string]*stats, duration time.Duration) {
	var totalOps int64
	var totalErrors int64

	endpoints := make([]string, 0, len(allResults))
	for ep := range allResults {
		endpoints = append(endpoints, ep)
	}
	sort.Strings(endpoints)

	fmt.Printf("\n  %-22s %8s %6s %10s %10s %10s %10s\n",
		"Endpoint", "Reqs", "Errs", "Avg", "P50", "P95", "P99")
	fmt.Println("  " + strings.Repeat("-", 88))

	for _, ep := range endpoints {
		s := allResults[ep]
		totalOps += s.count
		totalErrors += s.errors

		sort.Slice(s.latencies, func(i, j int) bool {
			return s.latencies[i] < s.latencies[j]
		})

		fmt.Printf("  %-22s %8d %6d %10s %10s %10s %10s\n",
			ep, s.count, s.errors,
			fmtDur(avgDuration(s.latencies)),
			fmtDur(percentile(s.latencies, 0.50)),
			fmtDur(percentile(s.latencies, 0.95)),
			fmtDur(percentile(s.latencies, 0.99)))
	}

	if totalOps == 0 {
		fmt.Println("  No requests completed")
		return
	}
	rps := float64(totalOps) / duration.Seconds()
	fmt.Println("  " + strings.Repeat("-", 88))
	fmt.Printf("  Total: %d reqs | Errors: %d (%.1f%%) | RPS: %.0f\n",
		totalOps, totalErrors, float64(totalErrors)/float64(totalOps)*100, rps)
}

func avgDuration(d []time.Duration) time.Duration {
	if len(d) == 0 {
		return 0
	}
	var sum time.Duration
	for _, v := range d {
		sum += v
	}
	return sum / time.Duration(len(d))
}

func percentile(d []time.Duration, p float64) time.Duration {
	if len(d) == 0 {
		return 0
	}
	idx := int(float64(len(d)) * p)
	if idx >= len(d) {
		idx = len(d) - 1
	}
	return d[idx]
}

func fmtDur(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dus", d.Microseconds())
	}
	return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000.0)
}
