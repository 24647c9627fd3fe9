package sftpclient

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"

	"pache/internal/logger"
)

type Config struct {
	Host      string
	Port      int
	User      string
	Pass      string
	RemoteDir string

	// KnownHosts is an OpenSSH known_hosts file used to verify the server.
	// Required unless InsecureIgnoreHostKey is set.
	KnownHosts            string
	InsecureIgnoreHostKey bool
}

// UploadFiles copies localPaths into cfg.RemoteDir over a single SSH
// connection, keeping each file's base name.
func UploadFiles(ctx context.Context, cfg Config, localPaths ...string) error {
	if cfg.Host == "" || cfg.User == "" || cfg.Pass == "" {
		return fmt.Errorf("sftp: missing env SFTP_HOST / SFTP_USER / SFTP_PASS")
	}
	if cfg.Port <= 0 {
		cfg.Port = 22
	}
	if cfg.RemoteDir == "" {
		cfg.RemoteDir = "/"
	}

	cb, err := hostKeyCallback(cfg)
	if err != nil {
		return err
	}

	sshCfg := &ssh.ClientConfig{
		User:            cfg.User,
		Auth:            []ssh.AuthMethod{ssh.Password(cfg.Pass)},
		HostKeyCallback: cb,
		Timeout:         20 * time.Second,
	}

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	// ssh.Dial has no ctx; race it against ctx
	type dialRes struct {
		client *ssh.Client
		err    error
	}
	ch := make(chan dialRes, 1)
	go func() {
		c, err := ssh.Dial("tcp", addr, sshCfg)
		ch <- dialRes{client: c, err: err}
	}()

	var sshClient *ssh.Client
	select {
	case <-ctx.Done():
		go func() {
			if r := <-ch; r.client != nil {
				r.client.Close()
			}
		}()
		return fmt.Errorf("sftp: dial canceled: %w", ctx.Err())
	case r := <-ch:
		if r.err != nil {
			return fmt.Errorf("sftp: dial error: %w", r.err)
		}
		sshClient = r.client
	}
	defer sshClient.Close()

	sftpCli, err := sftp.NewClient(sshClient)
	if err != nil {
		return fmt.Errorf("sftp: new client: %w", err)
	}
	defer sftpCli.Close()

	if err := sftpCli.MkdirAll(cfg.RemoteDir); err != nil {
		return fmt.Errorf("sftp: mkdir %s: %w", cfg.RemoteDir, err)
	}

	for _, local := range localPaths {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("sftp: upload canceled: %w", err)
		}
		remotePath := path.Join(cfg.RemoteDir, filepath.Base(local))
		create := func(p string) (io.WriteCloser, error) { return sftpCli.Create(p) }
		if err := copyFile(create, local, remotePath); err != nil {
			return err
		}
		logger.Named("sftp").Info().Str("file", local).Str("remote", remotePath).Msg("uploaded")
	}
	return nil
}

// createFunc opens a remote file for writing.
type createFunc func(path string) (io.WriteCloser, error)

func copyFile(create createFunc, localPath, remotePath string) error {
	src, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("sftp: open local file: %w", err)
	}
	defer src.Close()

	dst, err := create(remotePath)
	if err != nil {
		return fmt.Errorf("sftp: create remote file: %w", err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return fmt.Errorf("sftp: upload copy: %w", err)
	}
	// pending writes are flushed and acknowledged on close
	if err := dst.Close(); err != nil {
		return fmt.Errorf("sftp: close remote file: %w", err)
	}
	return nil
}

func hostKeyCallback(cfg Config) (ssh.HostKeyCallback, error) {
	if cfg.InsecureIgnoreHostKey {
		return ssh.InsecureIgnoreHostKey(), nil
	}
	if cfg.KnownHosts == "" {
		return nil, fmt.Errorf("sftp: set SFTP_KNOWN_HOSTS or SFTP_INSECURE_IGNORE_HOSTKEY=true")
	}
	cb, err := knownhosts.New(cfg.KnownHosts)
	if err != nil {
		return nil, fmt.Errorf("sftp: load known_hosts: %w", err)
	}
	return cb, nil
}
