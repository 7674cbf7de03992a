package docs

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/etnz/savings"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

func TestTopics(t *testing.T) {
	// This test ensures that the documentation is in sync with itself.
	// It checks two things:
	// 1. Every topic listed in readme.md can be loaded by 'sgt topic <name>'.
	// 2. Every .md file (readme.md excluded) is listed in readme.md.

	file, err := os.Open("readme.md")
	if err != nil {
		t.Fatalf("failed to open readme.md: %v", err)
	}
	defer file.Close()

	var topicsInReadme []string
	scanner := bufio.NewScanner(file)
	topicRegex := regexp.MustCompile(`^\*\s+([^:]+):.*$`)

	for scanner.Scan() {
		matches := topicRegex.FindStringSubmatch(scanner.Text())
		if len(matches) > 1 {
			topicsInReadme = append(topicsInReadme, strings.TrimSpace(matches[1]))
		}
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("error scanning readme.md: %v", err)
	}
	if len(topicsInReadme) == 0 {
		t.Fatal("readme.md lists no topics")
	}

	for _, topic := range topicsInReadme {
		t.Run("load_"+topic, func(t *testing.T) {
			if _, err := GetTopic(topic); err != nil {
				t.Errorf("failed to get topic %q: %v", topic, err)
			}
		})
	}

	all, err := GetAllTopics()
	if err != nil {
		t.Fatal(err)
	}
	for _, topic := range all {
		found := false
		for _, listed := range topicsInReadme {
			if listed == topic {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("topic %q is not listed in readme.md", topic)
		}
	}
}

// TestJSONBlocks checks that every json code block in the documentation is
// not only well formed but also accepted by the decoders it documents. The
// examples break loudly here when the stored formats change.
func TestJSONBlocks(t *testing.T) {
	files, err := filepath.Glob("*.md")
	if err != nil {
		t.Fatal(err)
	}

	for _, file := range files {
		t.Run(file, func(t *testing.T) {
			for i, block := range jsonBlocks(t, file) {
				checkJSONBlock(t, file, i, block)
			}
		})
	}
}

func checkJSONBlock(t *testing.T, file string, i int, block string) {
	t.Helper()
	var generic map[string]any
	if err := json.Unmarshal([]byte(block), &generic); err != nil {
		t.Errorf("%s block %d is not valid JSON: %v", file, i, err)
		return
	}

	// recognize the documented formats and feed them to the real decoders.
	switch {
	case generic["goals"] != nil:
		if _, err := savings.DecodeBackup(strings.NewReader(block)); err != nil {
			t.Errorf("%s block %d is not a valid backup: %v", file, i, err)
		}
	case generic["contributions"] != nil:
		var goal savings.Goal
		if err := json.Unmarshal([]byte(block), &goal); err != nil {
			t.Errorf("%s block %d is not a valid goal: %v", file, i, err)
		} else if err := goal.Validate(); err != nil {
			t.Errorf("%s block %d fails goal validation: %v", file, i, err)
		}
	case generic["USD_INR"] != nil:
		var rates savings.ExchangeRates
		if err := json.Unmarshal([]byte(block), &rates); err != nil {
			t.Errorf("%s block %d is not a valid rate record: %v", file, i, err)
		} else if !rates.Valid() {
			t.Errorf("%s block %d holds unusable rates", file, i)
		}
	default:
		t.Errorf("%s block %d documents an unknown format", file, i)
	}
}

// jsonBlocks extracts the content of every fenced json code block.
func jsonBlocks(t *testing.T, file string) []string {
	t.Helper()

	content, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("failed to read %s: %v", file, err)
	}

	root := goldmark.DefaultParser().Parse(text.NewReader(content))

	var blocks []string
	ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		fcb, ok := n.(*ast.FencedCodeBlock)
		if !ok || fcb.Info == nil {
			return ast.WalkContinue, nil
		}
		if string(fcb.Info.Segment.Value(content)) != "json" {
			return ast.WalkContinue, nil
		}
		var b bytes.Buffer
		for i := 0; i < fcb.Lines().Len(); i++ {
			line := fcb.Lines().At(i)
			b.Write(line.Value(content))
		}
		blocks = append(blocks, b.String())
		return ast.WalkContinue, nil
	})
	return blocks
}
