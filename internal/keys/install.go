package keys

import (
	"fmt"
	"os/exec"
	"strings"

	"skinsync/internal/errors"
	"skinsync/internal/util"
	"skinsync/pkg/sshutil"
)

// InstallKey copies an SSH public key to a device using ssh-copy-id.
// This enables passwordless authentication; ssh-copy-id prompts for the
// device password on the terminal.
func InstallKey(host string, keyPath string) error {
	if keyPath == "" {
		key := GetPreferredKey()
		if key == nil {
			return errors.New(errors.ErrSSH,
				"No SSH keys on this machine",
				"Generate one first: skinsync setup")
		}
		keyPath = key.Path
	}

	pubKeyPath := keyPath
	if !strings.HasSuffix(pubKeyPath, ".pub") {
		pubKeyPath = keyPath + ".pub"
	}

	sshCopyIDPath, err := exec.LookPath("ssh-copy-id")
	if err != nil {
		return errors.New(errors.ErrSSH,
			"Can't find ssh-copy-id",
			"Install OpenSSH, or copy the key manually:\n"+InstallKeyManual(host, pubKeyPath))
	}

	cmd := exec.Command(sshCopyIDPath, "-i", pubKeyPath, host)
	output, err := cmd.CombinedOutput()
	if err != nil {
		outputStr := strings.TrimSpace(string(output))

		if strings.Contains(outputStr, "Permission denied") {
			return errors.New(errors.ErrSSH,
				fmt.Sprintf("Permission denied on %s", host),
				"Double-check the device password and try again. CoreELEC's default is 'coreelec'.")
		}
		if strings.Contains(outputStr, "Connection refused") {
			return errors.New(errors.ErrSSH,
				fmt.Sprintf("Connection refused to %s", host),
				"Enable SSH on the device: Settings > CoreELEC > Services > SSH")
		}
		if strings.Contains(outputStr, "Could not resolve hostname") {
			return errors.New(errors.ErrSSH,
				fmt.Sprintf("Can't resolve hostname %s", host),
				"Check the hostname, or use the device's IP address instead.")
		}

		return errors.WrapWithCode(err, errors.ErrSSH,
			fmt.Sprintf("Couldn't copy SSH key to %s: %s", host, outputStr),
			"Try manually: ssh-copy-id -i "+pubKeyPath+" "+host)
	}

	return nil
}

// InstallKeyRemote appends a public key to the device's authorized_keys
// over an existing connection. Used when ssh-copy-id isn't available but
// we can already authenticate some other way. The key is only appended if
// it isn't present yet.
func InstallKeyRemote(client sshutil.SSHClient, pubKey string) error {
	pubKey = strings.TrimSpace(pubKey)
	if pubKey == "" {
		return errors.New(errors.ErrSSH,
			"Empty public key",
			"Read the key first: skinsync setup")
	}

	quoted := util.ShellQuote(pubKey)
	cmd := fmt.Sprintf(
		"mkdir -p ~/.ssh && chmod 700 ~/.ssh && "+
			"grep -qxF %s ~/.ssh/authorized_keys 2>/dev/null || printf '%%s\\n' %s >> ~/.ssh/authorized_keys; "+
			"chmod 600 ~/.ssh/authorized_keys",
		quoted, quoted)

	_, stderr, exitCode, err := client.Exec(cmd)
	if err != nil {
		return err
	}
	if exitCode != 0 {
		return errors.New(errors.ErrSSH,
			fmt.Sprintf("Couldn't install key on %s: %s", client.GetHost(), strings.TrimSpace(string(stderr))),
			"Check that the device's filesystem is writable.")
	}

	return nil
}

// InstallKeyManual returns instructions for copying the key by hand when
// ssh-copy-id isn't available.
func InstallKeyManual(host string, pubKeyPath string) string {
	pubKey, err := ReadPublicKey(pubKeyPath)
	if err != nil {
		return fmt.Sprintf(`To copy your SSH key manually:

1. Display your public key:
   cat %s

2. Copy the output and add it to the device:
   ssh %s "mkdir -p ~/.ssh && chmod 700 ~/.ssh && cat >> ~/.ssh/authorized_keys" << 'EOF'
   <paste your public key here>
   EOF

3. Set correct permissions:
   ssh %s "chmod 600 ~/.ssh/authorized_keys"
`, pubKeyPath, host, host)
	}

	return fmt.Sprintf(`To copy your SSH key manually, run:

ssh %s "mkdir -p ~/.ssh && chmod 700 ~/.ssh && echo '%s' >> ~/.ssh/authorized_keys && chmod 600 ~/.ssh/authorized_keys"
`, host, pubKey)
}

// TestPasswordlessAuth tests if passwordless authentication works for a
// device. Returns true if we can connect without a password prompt.
func TestPasswordlessAuth(host string) (bool, error) {
	cmd := exec.Command("ssh",
		"-o", "BatchMode=yes",
		"-o", "ConnectTimeout=5",
		"-o", "StrictHostKeyChecking=accept-new",
		host,
		"echo ok",
	)

	output, err := cmd.CombinedOutput()
	if err != nil {
		outputStr := string(output)

		// Auth failed, but the connection itself worked
		if strings.Contains(outputStr, "Permission denied") {
			return false, nil
		}

		return false, errors.WrapWithCode(err, errors.ErrSSH,
			fmt.Sprintf("SSH connection to %s failed", host),
			"Make sure the device is reachable: ping "+host)
	}

	return strings.TrimSpace(string(output)) == "ok", nil
}
