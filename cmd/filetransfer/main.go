package main

import (
	"flag"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/mmorykan/FileTransfer/internal/client"
	"github.com/mmorykan/FileTransfer/internal/common"
	"github.com/mmorykan/FileTransfer/internal/server"
)

const usage = `Transfer files between two computers.

Usage:
  filetransfer [--port N] server [--config FILE] [--datapath DIR]
  filetransfer [--port N] get <address> <file>...
  filetransfer [--port N] put <address> <file>...`

func main() {
	port := flag.Int("port", common.DefaultPort, "set the port number to use")
	flag.Parse()
	args := flag.Args()

	if len(args) < 1 {
		exitUsage("no command given")
	}

	switch cmd := args[0]; cmd {
	case "server":
		runServer(*port, args[1:])
	case "get":
		if len(args) < 3 {
			exitUsage("get needs an address and at least one file")
		}
		if err := client.Get(args[1], *port, args[2:]); err != nil {
			log.WithError(err).Fatal("Get failed")
		}
	case "put":
		if len(args) < 3 {
			exitUsage("put needs an address and at least one file")
		}
		if !allFilesExist(args[2:]) {
			fmt.Println("Not all of the given files exist, not trying")
			os.Exit(1)
		}
		if err := client.Put(args[1], *port, args[2:]); err != nil {
			log.WithError(err).Fatal("Put failed")
		}
	default:
		exitUsage("unknown command: " + cmd)
	}
}

func runServer(port int, args []string) {
	flags := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := flags.String("config", "", "load server options from a TOML file")
	datapath := flags.String("datapath", "", "directory to serve files from")
	if err := flags.Parse(args); err != nil {
		os.Exit(2)
	}

	opts := []func(*server.Options){
		func(o *server.Options) { o.Port = port },
	}
	if *datapath != "" {
		opts = append(opts, func(o *server.Options) { o.Datapath = *datapath })
	}
	if *configPath != "" {
		opt, err := server.LoadOptions(*configPath)
		if err != nil {
			log.WithError(err).Fatal("Could not load config")
		}
		opts = append(opts, opt)
	}

	srv, err := server.New(opts...)
	if err != nil {
		log.WithError(err).Fatal("Could not create server")
	}
	if err := srv.Serve(); err != nil {
		log.WithError(err).Fatal("Server stopped")
	}
}

func allFilesExist(filenames []string) bool {
	for _, filename := range filenames {
		info, err := os.Stat(filename)
		if err != nil || info.IsDir() {
			return false
		}
	}
	return true
}

func exitUsage(message string) {
	fmt.Println(message)
	fmt.Println(usage)
	os.Exit(1)
}
