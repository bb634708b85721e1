package domain

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// ConfigFileName is the name of the configuration file.
const ConfigFileName = "config.toml"

// GlobalConfigDir returns the issuebot directory under a config home.
func GlobalConfigDir(configHome string) string {
	return filepath.Join(configHome, "issuebot")
}

// ChatLogPath returns the path to the log file of one chat.
func ChatLogPath(dataDir string, chatID int64) string {
	return filepath.Join(dataDir, "logs", fmt.Sprintf("chat-%d.log", chatID))
}

// GlobalLogPath returns the path to the global log file.
func GlobalLogPath(dataDir string) string {
	return filepath.Join(dataDir, "logs", "bot.log")
}

// plainMessageLink is used where a chat cannot be linked to.
const plainMessageLink = "telegram message."

// MessageLink returns a chat-markup link to a message. Only supergroups have
// public message addresses; other chats get a plain label.
// Format: https://t.me/c/<chat id without -100>/<thread or 1>/<message id>
func MessageLink(chat Chat, messageID int64) (string, bool) {
	if chat.Type != ChatTypeSupergroup {
		return plainMessageLink, false
	}
	thread := chat.ThreadID
	if thread == 0 {
		thread = 1
	}
	id := strings.TrimPrefix(strconv.FormatInt(chat.ID, 10), "-100")
	return fmt.Sprintf(`<a href="https://t.me/c/%s/%d/%d">%s</a>`, id, thread, messageID, plainMessageLink), true
}
