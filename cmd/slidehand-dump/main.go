package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/ayusman/slidehand/internal/detector"
	"github.com/ayusman/slidehand/internal/gesture"
	"github.com/ayusman/slidehand/internal/recording"
)

type record struct {
	Index      int               `json:"index"`
	Time       string            `json:"time"`
	Hand       bool              `json:"hand"`
	Handedness string            `json:"handedness,omitempty"`
	Score      float64           `json:"score,omitempty"`
	Label      gesture.Label     `json:"label"`
	Wrist      *detector.Point3D `json:"wrist,omitempty"`
	IndexTip   *detector.Point3D `json:"index_tip,omitempty"`
}

func main() {
	var (
		path  = flag.String("path", "", "Path to a landmark recording")
		limit = flag.Int("limit", 0, "Number of frames to dump (0 for all)")
		thumb = flag.String("thumb", "right", "Thumb direction used to classify frames (left or right)")
	)
	flag.Parse()

	if *path == "" {
		log.Fatal("path is required")
	}
	dir, err := gesture.ParseThumbDirection(*thumb)
	if err != nil {
		log.Fatal(err)
	}
	classifier := gesture.NewClassifier(dir)

	f, err := os.Open(*path)
	if err != nil {
		log.Fatalf("open recording: %v", err)
	}
	defer f.Close()

	rd, err := recording.NewReader(f)
	if err != nil {
		log.Fatalf("read recording: %v", err)
	}

	enc := json.NewEncoder(os.Stdout)
	counts := make(map[gesture.Label]int)
	n := 0
	for *limit == 0 || n < *limit {
		fr, err := rd.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			log.Fatalf("frame %d: %v", n, err)
		}

		rec := record{Index: n, Time: fr.Time.Format(time.RFC3339Nano), Label: classifier.Classify(fr.Hand)}
		if h := fr.Hand; h != nil {
			wrist, tip := h.Points[detector.Wrist], h.Points[detector.IndexTip]
			rec.Hand = true
			rec.Handedness = h.Handedness
			rec.Score = h.Score
			rec.Wrist = &wrist
			rec.IndexTip = &tip
		}
		if err := enc.Encode(rec); err != nil {
			log.Fatalf("encode frame %d: %v", n, err)
		}
		counts[rec.Label]++
		n++
	}

	fmt.Fprintf(os.Stderr, "%d frames\n", n)
	for _, l := range gesture.Labels() {
		if c := counts[l]; c > 0 {
			fmt.Fprintf(os.Stderr, "  %-10s %d\n", l, c)
		}
	}
}
