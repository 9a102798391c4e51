package api

import (
	"net/http"
)

type headerOpt struct {
	name  string
	value string
}

func APIKey(name, key string) *headerOpt {
	return &headerOpt{name: name, value: key}
}

func OAuth2(prefix, token string) *headerOpt {
	return &headerOpt{name: "Authorization", value: prefix + " " + token}
}

func (opt *headerOpt) Do(client defaultClient, req *http.Request) {
	if opt.value == "" {
		return
	}

	req.Header.Set(opt.name, opt.value)
}
