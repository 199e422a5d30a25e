package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/fatih/color"
)

// Pretty print JSON helper
func prettyPrint(v interface{}) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("%v\n", v)
		return
	}
	fmt.Println(string(b))
}

func sendRequest(baseURL, method, url string, body interface{}) (*http.Response, []byte, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, baseURL+url, bodyReader)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{} // No timeout, streams can run long
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

func main() {
	baseURL := flag.String("base", "http://localhost:3000/api", "API base URL")
	storeId := flag.String("store", "", "file search store name for the grounded probe")
	message := flag.String("message", "What can you tell me about this project?", "probe message")
	flag.Parse()

	color.Cyan("🚀 Probing Chat API\n")

	// 1. Streaming endpoint
	color.Yellow("\n[CHAT] 1. Streaming generation")
	streamReq := map[string]interface{}{
		"messages": []map[string]string{
			{"role": "user", "content": *message},
		},
	}
	jsonBody, _ := json.Marshal(streamReq)
	resp, err := http.Post(*baseURL+"/chat/v1/stream", "application/json", bytes.NewBuffer(jsonBody))
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	reader := bufio.NewReader(resp.Body)
	buf := make([]byte, 512)
	for {
		n, err := reader.Read(buf)
		if n > 0 {
			fmt.Print(string(buf[:n]))
		}
		if err != nil {
			break
		}
	}
	resp.Body.Close()
	fmt.Println()

	// 2. Grounded endpoint
	color.Yellow("\n[CHAT] 2. Grounded generation")
	if *storeId == "" {
		color.Red("Skipped: pass -store to probe the grounded path")
	} else {
		chatReq := map[string]interface{}{
			"message": *message,
			"storeId": *storeId,
		}
		httpResp, body, err := sendRequest(*baseURL, "POST", "/chat/v1", chatReq)
		if err != nil {
			color.Red("Failed: %v", err)
			os.Exit(1)
		}
		color.Green("Status: %s", httpResp.Status)
		var chatResp map[string]interface{}
		json.Unmarshal(body, &chatResp)
		prettyPrint(chatResp)
	}

	// 3. Store listing
	color.Yellow("\n[CHAT] 3. List file search stores")
	httpResp, body, err := sendRequest(*baseURL, "GET", "/chat/v1/stores", nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", httpResp.Status)
	var storesResp map[string]interface{}
	json.Unmarshal(body, &storesResp)
	prettyPrint(storesResp)

	color.Cyan("\n✅ Probe complete")
}
