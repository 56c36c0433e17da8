package server

import "github.com/mmorykan/FileTransfer/internal/common"

type Options struct {
	Address  string
	Port     int
	Datapath string
	// ConfineToDatapath rejects received filenames that resolve outside
	// Datapath. Off by default: names are trusted, like the client
	// trusts the names it saves under.
	ConfineToDatapath bool
}

func NewDefaultOptions() *Options {
	return &Options{
		Address:           "0.0.0.0",
		Port:              common.DefaultPort,
		Datapath:          ".",
		ConfineToDatapath: false,
	}
}
