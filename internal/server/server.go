package server

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"os/signal"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"github.com/mmorykan/FileTransfer/internal/common"
)

type Server struct {
	options        *Options
	parentFilePath string
	listener       net.Listener
}

func New(opts ...func(*Options)) (*Server, error) {
	options := NewDefaultOptions()

	for _, opt := range opts {
		opt(options)
	}

	parentFilePath, err := filepath.Abs(options.Datapath)
	if err != nil {
		return nil, err
	}

	log.SetFormatter(&log.TextFormatter{
		ForceColors: true,
	})

	return &Server{
		options:        options,
		parentFilePath: parentFilePath,
	}, nil
}

// Listen binds the TCP listener without accepting anything yet. Serve
// calls it on its own when it has not been called before.
func (server *Server) Listen() error {
	listener, err := net.Listen("tcp", fmt.Sprintf("%v:%v", server.options.Address, server.options.Port))
	if err != nil {
		return fmt.Errorf("listen on %v:%v: %w", server.options.Address, server.options.Port, err)
	}
	server.listener = listener
	return nil
}

// Addr returns the bound address, nil before Listen.
func (server *Server) Addr() net.Addr {
	if server.listener == nil {
		return nil
	}
	return server.listener.Addr()
}

func (server *Server) Close() error {
	if server.listener == nil {
		return nil
	}
	return server.listener.Close()
}

// Serve accepts connections until the listener closes. A session that
// fails only takes down its own connection, never the accept loop.
func (server *Server) Serve() error {
	if server.listener == nil {
		if err := server.Listen(); err != nil {
			return err
		}
	}

	server.handleShutdown()
	log.Infof("Starting server on %v", server.listener.Addr())

	for {
		conn, err := server.listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			log.WithError(err).Warn("Could not accept TCP Connection")
			continue
		}

		go server.handleConnection(conn)
	}
}

func (server *Server) handleShutdown() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)

	go func() {
		for range c {
			log.Info("Server is shutting down")
			err := server.listener.Close()
			if err != nil {
				log.WithError(err).Error("Could not close TCP Listener")
			}
			return
		}
	}()
}

func (server *Server) handleConnection(conn net.Conn) {
	defer func(conn net.Conn) {
		err := conn.Close()
		if err != nil && !errors.Is(err, net.ErrClosed) {
			log.WithError(err).Error("Could not close TCP connection")
		}
	}(conn)

	if err := server.dispatch(conn); err != nil {
		log.WithError(err).WithField("Remote", conn.RemoteAddr()).Error("Session failed")
	}
}

func (server *Server) dispatch(conn net.Conn) error {
	if err := common.WriteInt32(conn, common.Version); err != nil {
		return fmt.Errorf("send version: %w", err)
	}

	get, err := common.ReadBool(conn)
	if err != nil {
		return fmt.Errorf("read direction flag: %w", err)
	}

	if get {
		return server.sendFiles(conn)
	}
	return server.receiveFiles(conn)
}

// sendFiles is the server half of the get flow: for every wanted name,
// in order, one existence flag and then the payload if there is one.
func (server *Server) sendFiles(conn net.Conn) error {
	filenames, err := common.ReadStringList(conn)
	if err != nil {
		return fmt.Errorf("read wanted filenames: %w", err)
	}

	for _, filename := range filenames {
		path, ok := server.resolve(filename)
		var data []byte
		if ok {
			data, err = os.ReadFile(path)
			if err != nil {
				if !errors.Is(err, fs.ErrNotExist) {
					log.WithError(err).WithField("File", path).Warn("Unable to read File")
				}
				ok = false
			}
		}

		if err := common.WriteBool(conn, ok); err != nil {
			return fmt.Errorf("send existence flag for %v: %w", filename, err)
		}
		if !ok {
			continue
		}
		if err := common.WriteBytes(conn, data); err != nil {
			return fmt.Errorf("send %v: %w", filename, err)
		}
		log.WithFields(log.Fields{
			"File": filename,
			"Size": len(data),
		}).Info("Sent File")
	}
	return nil
}

// receiveFiles is the server half of the put flow. The count arrives as
// a bare int32, not as list framing.
func (server *Server) receiveFiles(conn net.Conn) error {
	count, err := common.ReadInt32(conn)
	if err != nil {
		return fmt.Errorf("read upload count: %w", err)
	}
	if count < 0 {
		return fmt.Errorf("upload count: %w", common.ErrNegativeLength)
	}

	for i := int32(0); i < count; i++ {
		filename, err := common.ReadString(conn)
		if err != nil {
			return fmt.Errorf("read uploaded filename: %w", err)
		}
		data, err := common.ReadBytes(conn)
		if err != nil {
			return fmt.Errorf("receive %v: %w", filename, err)
		}

		path, ok := server.resolve(filename)
		if !ok {
			return fmt.Errorf("uploaded filename %v escapes the data path", filename)
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("save %v: %w", filename, err)
		}
		log.WithFields(log.Fields{
			"File": filename,
			"Size": len(data),
		}).Info("Stored File")
	}
	return nil
}

func (server *Server) resolve(filename string) (string, bool) {
	file := filepath.Join(server.parentFilePath, filename)
	if !server.options.ConfineToDatapath {
		return file, true
	}

	file = filepath.Clean(file)
	matched, err := filepath.Match(filepath.Join(server.parentFilePath, "*"), file)
	if err != nil || !matched {
		log.WithFields(log.Fields{
			"ParentFilePath": server.parentFilePath,
			"Filename":       filename,
			"CleanedPath":    file,
		}).WithError(err).Warn("Requested File out of Path")
		return "", false
	}
	return file, true
}
