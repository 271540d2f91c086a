package main

import (
	"io"
	"net/http"

	"github.com/foomo/snippet"
)

type runHandler struct {
	interpreter *snippet.Interpreter
	maxBytes    int64
}

func newRunHandler(interpreter *snippet.Interpreter, maxBytes int) http.Handler {
	return &runHandler{
		interpreter: interpreter,
		maxBytes:    int64(maxBytes),
	}
}

// ServeHTTP answers with a text/plain report, the output is never embedded in
// html here
func (h *runHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "expecting POST with a snippet as body", http.StatusMethodNotAllowed)
		return
	}
	body := io.Reader(r.Body)
	if h.maxBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	}
	textBytes, errRead := io.ReadAll(body)
	if errRead != nil {
		http.Error(w, "could not read snippet: "+errRead.Error(), http.StatusRequestEntityTooLarge)
		return
	}
	result := h.interpreter.Run(r.Context(), string(textBytes))
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Snippet-Language", string(result.Language))
	snippet.PrintResult(w, result)
}
