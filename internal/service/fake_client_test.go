package service

import (
	"context"
	"errors"
)

type fakeChatClient struct {
	content  string
	tokens   int64
	err      error
	requests []ChatRequest
}

func (f *fakeChatClient) Complete(_ context.Context, req ChatRequest) (*ChatResponse, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return &ChatResponse{Content: f.content, Model: req.Model, TotalTokens: f.tokens}, nil
}

func (f *fakeChatClient) lastRequest() ChatRequest {
	if len(f.requests) == 0 {
		return ChatRequest{}
	}
	return f.requests[len(f.requests)-1]
}

var errRemote = errors.New("status 401: invalid api key")

type fakeRenderer struct {
	pages    int
	png      []byte
	text     string
	err      error
	rendered []int
}

func (r *fakeRenderer) PageCount(_ []byte) (int, error) {
	if r.err != nil {
		return 0, r.err
	}
	return r.pages, nil
}

func (r *fakeRenderer) RenderPNG(_ []byte, page int) ([]byte, error) {
	r.rendered = append(r.rendered, page)
	return r.png, nil
}

func (r *fakeRenderer) Text(_ []byte, _ int) (string, error) {
	return r.text, nil
}
