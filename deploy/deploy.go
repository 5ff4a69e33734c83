// Package deploy ships an exported application to a target host over SSH
// and starts it with docker compose.
package deploy

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/SchmitzHorst/ai-agent-service/logger"
	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
)

// Directories never uploaded to the target host.
var skipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
}

type Config struct {
	Host      string
	User      string
	KeyPath   string
	TargetDir string
	Domain    string
}

type Deployer struct {
	cfg    Config
	logger logger.Logger
}

func NewDeployer(cfg Config, l logger.Logger) *Deployer {
	if l == nil {
		l = logger.NewNullLogger()
	}
	return &Deployer{cfg: cfg, logger: l}
}

// Deploy uploads the app directory to the target host, writes its runtime
// environment file and starts it with docker compose. It returns the public
// URL of the deployed application.
func (d *Deployer) Deploy(appName, appPath string) (string, error) {
	d.logger.Info(fmt.Sprintf("Starting deployment for: %s", appName))

	client, err := d.dial()
	if err != nil {
		return "", err
	}
	defer client.Close()

	d.logger.Info(fmt.Sprintf("SSH connected to %s", d.cfg.Host))

	remoteAppPath := path.Join(d.cfg.TargetDir, appName)
	if _, err := d.runCommand(client, "mkdir -p "+remoteAppPath); err != nil {
		return "", err
	}

	if err := d.uploadDirectory(client, appPath, remoteAppPath); err != nil {
		return "", err
	}

	if err := d.writeEnvFile(client, remoteAppPath, appName); err != nil {
		return "", err
	}

	if err := d.composeUp(client, remoteAppPath); err != nil {
		return "", err
	}

	url := fmt.Sprintf("https://%s.%s", appName, d.cfg.Domain)
	d.logger.Info(fmt.Sprintf("Deployment completed: %s", url))
	return url, nil
}

func (d *Deployer) dial() (*ssh.Client, error) {
	key, err := os.ReadFile(d.cfg.KeyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read SSH key %s: %w", d.cfg.KeyPath, err)
	}
	signer, err := ssh.ParsePrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("failed to parse SSH key: %w", err)
	}

	config := &ssh.ClientConfig{
		User: d.cfg.User,
		Auth: []ssh.AuthMethod{
			ssh.PublicKeys(signer),
		},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
	}

	client, err := ssh.Dial("tcp", d.cfg.Host+":22", config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", d.cfg.Host, err)
	}
	return client, nil
}

func (d *Deployer) runCommand(client *ssh.Client, command string) (string, error) {
	d.logger.Debug("Executing: " + command)

	session, err := client.NewSession()
	if err != nil {
		return "", fmt.Errorf("failed to open SSH session: %w", err)
	}
	defer session.Close()

	output, err := session.CombinedOutput(command)
	if err != nil {
		return "", fmt.Errorf("command %q failed: %w: %s", command, err, string(output))
	}
	return string(output), nil
}

func (d *Deployer) uploadDirectory(client *ssh.Client, localDir, remoteDir string) error {
	d.logger.Info(fmt.Sprintf("Copying files from %s to %s", localDir, remoteDir))

	sftpClient, err := sftp.NewClient(client)
	if err != nil {
		return fmt.Errorf("failed to open SFTP session: %w", err)
	}
	defer sftpClient.Close()

	return filepath.Walk(localDir, func(localPath string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(localDir, localPath)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		if info.IsDir() && skipDirs[info.Name()] {
			return filepath.SkipDir
		}

		remotePath := path.Join(remoteDir, filepath.ToSlash(rel))
		if info.IsDir() {
			// Directory might already exist.
			sftpClient.Mkdir(remotePath)
			return nil
		}

		src, err := os.Open(localPath)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", localPath, err)
		}
		defer src.Close()

		dst, err := sftpClient.Create(remotePath)
		if err != nil {
			return fmt.Errorf("failed to create remote file %s: %w", remotePath, err)
		}
		defer dst.Close()

		if _, err := io.Copy(dst, src); err != nil {
			return fmt.Errorf("failed to upload %s: %w", localPath, err)
		}
		return nil
	})
}

func (d *Deployer) writeEnvFile(client *ssh.Client, remoteAppPath, appName string) error {
	d.logger.Info("Creating .env file")

	dbName := strings.ReplaceAll(appName, "-", "")
	envContent := fmt.Sprintf(
		"APP_NAME=%s\n"+
			"DOMAIN=%s.%s\n"+
			"POSTGRES_DB=%sdb\n"+
			"POSTGRES_USER=%suser\n"+
			"POSTGRES_PASSWORD=%s\n"+
			"SPRING_PROFILES_ACTIVE=prod\n"+
			"SERVER_PORT=8080\n",
		appName, appName, d.cfg.Domain, dbName, dbName, generatePassword(),
	)

	command := fmt.Sprintf("cat > %s/.env <<'EOF'\n%sEOF", remoteAppPath, envContent)
	_, err := d.runCommand(client, command)
	return err
}

func (d *Deployer) composeUp(client *ssh.Client, remoteAppPath string) error {
	d.logger.Info("Starting docker compose deployment")

	command := fmt.Sprintf(
		"cd %s && docker compose -f docker-compose.prod.yml build && "+
			"docker compose -f docker-compose.prod.yml up -d",
		remoteAppPath,
	)
	if _, err := d.runCommand(client, command); err != nil {
		return err
	}

	status, err := d.runCommand(client, fmt.Sprintf(
		"cd %s && docker compose -f docker-compose.prod.yml ps", remoteAppPath,
	))
	if err != nil {
		return err
	}
	d.logger.Info("Container status:\n" + status)
	return nil
}

func generatePassword() string {
	b := make([]byte, 16)
	rand.Read(b)
	return hex.EncodeToString(b)
}
