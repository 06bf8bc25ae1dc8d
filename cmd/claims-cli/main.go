package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"
)

const version = "1.0.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	gateway := os.Getenv("CLAIMS_GATEWAY_URL")
	if gateway == "" {
		gateway = "http://localhost:8080"
	}

	switch os.Args[1] {
	case "matrix":
		cmdMatrix(gateway)
	case "negotiate":
		cmdNegotiate(gateway)
	case "claim":
		cmdClaim(gateway)
	case "version":
		fmt.Printf("claims-cli v%s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Claims Engine CLI v` + version + `

Usage: claims-cli <command> [flags]

Commands:
  matrix     Determine liability from the responsibility matrix
  negotiate  Run the disputed-claim negotiation
  claim      Manage claims (get, resolve, cancel, list)
  version    Print version
  help       Show this help

Environment:
  CLAIMS_GATEWAY_URL   Gateway URL (default: http://localhost:8080)

Examples:
  claims-cli matrix -a 13 -b 6
  claims-cli negotiate -a 4 -b 5 --ev-a 0.8 --ev-b 0.2 --ev-count 3
  claims-cli claim resolve <claim-id>
  claims-cli claim get <claim-id>`)
}

// ----------------------------------------------------------------
// matrix command
// ----------------------------------------------------------------

func cmdMatrix(gateway string) {
	var circA, circB int

	args := os.Args[2:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--circumstance-a", "-a":
			i++
			if i < len(args) {
				circA = atoi(args[i])
			}
		case "--circumstance-b", "-b":
			i++
			if i < len(args) {
				circB = atoi(args[i])
			}
		}
	}

	if circA == 0 || circB == 0 {
		fmt.Fprintln(os.Stderr, "matrix requires -a and -b circumstance codes (1-15)")
		os.Exit(1)
	}

	post(gateway+"/api/v1/engine/matrix", map[string]interface{}{
		"circumstance_a": circA,
		"circumstance_b": circB,
	})
}

// ----------------------------------------------------------------
// negotiate command
// ----------------------------------------------------------------

func cmdNegotiate(gateway string) {
	var circA, circB, evCount, docCount int
	var evA, evB, docA, docB float64

	args := os.Args[2:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--circumstance-a", "-a":
			i++
			if i < len(args) {
				circA = atoi(args[i])
			}
		case "--circumstance-b", "-b":
			i++
			if i < len(args) {
				circB = atoi(args[i])
			}
		case "--ev-a":
			i++
			if i < len(args) {
				evA = atof(args[i])
			}
		case "--ev-b":
			i++
			if i < len(args) {
				evB = atof(args[i])
			}
		case "--ev-count":
			i++
			if i < len(args) {
				evCount = atoi(args[i])
			}
		case "--doc-a":
			i++
			if i < len(args) {
				docA = atof(args[i])
			}
		case "--doc-b":
			i++
			if i < len(args) {
				docB = atof(args[i])
			}
		case "--doc-count":
			i++
			if i < len(args) {
				docCount = atoi(args[i])
			}
		}
	}

	if circA == 0 || circB == 0 {
		fmt.Fprintln(os.Stderr, "negotiate requires -a and -b circumstance codes (1-15)")
		os.Exit(1)
	}

	post(gateway+"/api/v1/engine/negotiate", map[string]interface{}{
		"circumstance_a": circA,
		"circumstance_b": circB,
		"evidence": map[string]interface{}{
			"weight_a": evA, "weight_b": evB, "count": evCount,
		},
		"documents": map[string]interface{}{
			"weight_a": docA, "weight_b": docB, "count": docCount,
		},
	})
}

// ----------------------------------------------------------------
// claim command
// ----------------------------------------------------------------

func cmdClaim(gateway string) {
	if len(os.Args) < 3 {
		fmt.Fprintln(os.Stderr, "claim requires a subcommand: get, resolve, cancel, list")
		os.Exit(1)
	}

	switch os.Args[2] {
	case "get":
		requireID("claim get")
		get(gateway + "/api/v1/claims/" + os.Args[3])
	case "resolve":
		requireID("claim resolve")
		post(gateway+"/api/v1/claims/"+os.Args[3]+"/resolve", nil)
	case "cancel":
		requireID("claim cancel")
		post(gateway+"/api/v1/claims/"+os.Args[3]+"/cancel", nil)
	case "list":
		get(gateway + "/api/v1/claims")
	default:
		fmt.Fprintf(os.Stderr, "Unknown claim subcommand: %s\n", os.Args[2])
		os.Exit(1)
	}
}

func requireID(cmd string) {
	if len(os.Args) < 4 {
		fmt.Fprintf(os.Stderr, "%s requires a claim ID\n", cmd)
		os.Exit(1)
	}
}

// ----------------------------------------------------------------
// HTTP helpers
// ----------------------------------------------------------------

var client = &http.Client{Timeout: 10 * time.Second}

func post(url string, body interface{}) {
	var reader io.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(http.MethodPost, url, reader)
	if err != nil {
		fail(err)
	}
	req.Header.Set("Content-Type", "application/json")
	do(req)
}

func get(url string) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		fail(err)
	}
	do(req)
}

func do(req *http.Request) {
	resp, err := client.Do(req)
	if err != nil {
		fail(err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)

	var pretty bytes.Buffer
	if json.Indent(&pretty, data, "", "  ") == nil {
		fmt.Println(pretty.String())
	} else {
		fmt.Println(string(data))
	}

	if resp.StatusCode >= 400 {
		os.Exit(1)
	}
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Request failed: %v\n", err)
	os.Exit(1)
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func atof(s string) float64 {
	f, _ := strconv.ParseFloat(s, 64)
	return f
}
