package client

import (
	"fmt"
	"net"
	"os"
	"strconv"

	log "github.com/sirupsen/logrus"

	"github.com/kelindar/bitmap"

	"github.com/mmorykan/FileTransfer/internal/common"
)

func dial(address string, port int) (net.Conn, error) {
	conn, err := net.Dial("tcp", net.JoinHostPort(address, strconv.Itoa(port)))
	if err != nil {
		return nil, fmt.Errorf("connect to server: %w", err)
	}
	return conn, nil
}

// handshake reads the version the server announces on connect and hangs
// up on anything other than the version this client speaks.
func handshake(conn net.Conn) error {
	version, err := common.ReadInt32(conn)
	if err != nil {
		return fmt.Errorf("read server version: %w", err)
	}
	if version != common.Version {
		return &common.VersionError{Got: version, Want: common.Version}
	}
	return nil
}

// Get fetches the named files from the server and saves each one in the
// working directory under the name it was requested as. Files the server
// does not have are reported and skipped, not treated as failures.
func Get(address string, port int, filenames []string) error {
	conn, err := dial(address, port)
	if err != nil {
		return err
	}
	defer func(conn net.Conn) {
		err := conn.Close()
		if err != nil {
			log.WithError(err).Error("Could not close connection")
		}
	}(conn)

	if err := handshake(conn); err != nil {
		return err
	}
	if err := common.WriteBool(conn, true); err != nil {
		return err
	}
	if err := common.WriteStringList(conn, filenames); err != nil {
		return err
	}

	var missing bitmap.Bitmap
	for i, filename := range filenames {
		exists, err := common.ReadBool(conn)
		if err != nil {
			return fmt.Errorf("read existence flag for %v: %w", filename, err)
		}
		if !exists {
			missing.Set(uint32(i))
			continue
		}
		data, err := common.ReadBytes(conn)
		if err != nil {
			return fmt.Errorf("receive %v: %w", filename, err)
		}
		if err := os.WriteFile(filename, data, 0644); err != nil {
			return fmt.Errorf("save %v: %w", filename, err)
		}
		log.WithFields(log.Fields{
			"File": filename,
			"Size": len(data),
		}).Info("Retrieved File")
	}

	missing.Range(func(i uint32) {
		fmt.Printf("%v doesn't exist on the server\n", filenames[i])
	})
	if count := missing.Count(); count > 0 {
		log.WithField("Missing", count).Warn("Some Files were not on the Server")
	}
	return nil
}

// Put uploads the named local files to the server. Every file is read
// fully into memory before the connection is opened, so an unreadable
// file aborts the whole batch without touching the network.
func Put(address string, port int, filenames []string) error {
	contents := make([][]byte, len(filenames))
	for i, filename := range filenames {
		data, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("read %v: %w", filename, err)
		}
		contents[i] = data
	}

	conn, err := dial(address, port)
	if err != nil {
		return err
	}
	defer func(conn net.Conn) {
		err := conn.Close()
		if err != nil {
			log.WithError(err).Error("Could not close connection")
		}
	}(conn)

	if err := handshake(conn); err != nil {
		return err
	}
	if err := common.WriteBool(conn, false); err != nil {
		return err
	}
	// The upload count is a bare int32, not list framing. The peer
	// depends on this asymmetry with the get flow.
	if err := common.WriteInt32(conn, int32(len(filenames))); err != nil {
		return err
	}
	for i, filename := range filenames {
		if err := common.WriteString(conn, filename); err != nil {
			return fmt.Errorf("send name of %v: %w", filename, err)
		}
		if err := common.WriteBytes(conn, contents[i]); err != nil {
			return fmt.Errorf("send %v: %w", filename, err)
		}
		log.WithFields(log.Fields{
			"File": filename,
			"Size": len(contents[i]),
		}).Info("Uploaded File")
	}
	return nil
}
