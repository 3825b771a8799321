package pdfsplit

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
)

// ChunkMetadata identifies where a document chunk came from.
type ChunkMetadata struct {
	// Source is the source file name the chunk was split from.
	Source string `json:"source"`

	// Page is the 1-based PDF page number.
	Page int `json:"page"`

	// ChunkID is the sequential chunk number across the whole document,
	// starting from 1.
	ChunkID int `json:"chunk_id"`
}

// DocumentChunk is one split unit with its provenance metadata.
type DocumentChunk struct {
	Text     string        `json:"text"`
	Metadata ChunkMetadata `json:"metadata"`
}

// ChunkPages splits every page's text and numbers the resulting chunks
// sequentially across the document.
func ChunkPages(pages []PageText, source string, splitter *Splitter) []DocumentChunk {
	if splitter == nil {
		splitter = NewSplitter()
	}

	var chunks []DocumentChunk
	id := 0

	for _, page := range pages {
		for _, text := range splitter.Split(page.Text) {
			id++
			chunks = append(chunks, DocumentChunk{
				Text: text,
				Metadata: ChunkMetadata{
					Source:  source,
					Page:    page.Page,
					ChunkID: id,
				},
			})
		}
	}

	return chunks
}

// WriteJSONL writes the chunks to w as JSON Lines, one object per line.
// Returns the number of bytes written.
func WriteJSONL(w io.Writer, chunks []DocumentChunk) (int, error) {
	bw := bufio.NewWriter(w)
	total := 0

	for i := range chunks {
		data, err := json.Marshal(&chunks[i])
		if err != nil {
			return total, fmt.Errorf("marshal chunk %d: %w", chunks[i].Metadata.ChunkID, err)
		}
		n, err := bw.Write(append(data, '\n'))
		total += n
		if err != nil {
			return total, err
		}
	}

	if err := bw.Flush(); err != nil {
		return total, err
	}
	return total, nil
}
