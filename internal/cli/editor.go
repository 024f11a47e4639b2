package cli

import (
	"fmt"
	"os"
	"os/exec"
)

// openEditorFunc is a function variable for opening the editor, allowing it to be mocked in tests.
var openEditorFunc = openEditor

// editorCommand returns $EDITOR, then $VISUAL, then vi.
func editorCommand() string {
	for _, env := range []string{"EDITOR", "VISUAL"} {
		if v := os.Getenv(env); v != "" {
			return v
		}
	}
	return "vi"
}

// openEditor runs the editor on filePath and waits for it to exit.
// EDITOR may carry arguments ("code --wait"), so it runs through the shell.
func openEditor(filePath string) error {
	editor := editorCommand()

	cmd := exec.Command("sh", "-c", editor+` "$1"`, "sh", filePath)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("run editor %s: %w", editor, err)
	}
	return nil
}

// editInEditor writes a task document to a temporary .md file, lets the
// user edit it and returns the saved content. The file is always removed.
func editInEditor(doc string) (string, error) {
	f, err := os.CreateTemp("", "todo-task-*.md")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	path := f.Name()
	defer func() { _ = os.Remove(path) }()

	_, err = f.WriteString(doc)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return "", fmt.Errorf("write temp file: %w", err)
	}

	if err := openEditorFunc(path); err != nil {
		return "", err
	}

	edited, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read edited file: %w", err)
	}
	return string(edited), nil
}
