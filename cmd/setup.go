package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"songcraft/pkg/config"
)

const envFile = ".env"

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive setup wizard for Songcraft",
	Long:  `Configure API keys, create the output directory, and optionally set up Google Cloud.`,
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	fmt.Println(titleStyle.Render("🎵 Songcraft Setup"))

	steps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"Creating directories", createDirectories},
		{"Configuring environment", configureEnv},
	}

	for _, step := range steps {
		if err := step.fn(ctx); err != nil {
			return fmt.Errorf("%s: %w", step.name, err)
		}
	}

	printNextSteps()
	return nil
}

func createDirectories(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.Output.Dir, 0755); err != nil {
		return fmt.Errorf("create %s: %w", cfg.Output.Dir, err)
	}
	fmt.Println(successStyle.Render("✓ Created " + cfg.Output.Dir))
	return nil
}

func configureEnv(ctx context.Context) error {
	if _, err := os.Stat(envFile); err == nil {
		var overwrite bool
		if err := huh.NewConfirm().
			Title("Found existing .env file").
			Description("Overwrite?").
			Value(&overwrite).
			Run(); err != nil {
			return err
		}
		if !overwrite {
			fmt.Println(infoStyle.Render("Kept existing .env"))
			return nil
		}
	}

	env := make(map[string]string)

	if err := configureKeys(env); err != nil {
		return err
	}

	if err := configureGCP(ctx, env); err != nil {
		return err
	}

	f, err := os.Create(envFile)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if err := writeEnv(f, env); err != nil {
		return err
	}
	fmt.Println(successStyle.Render("✓ Created .env file"))
	return nil
}

func configureKeys(env map[string]string) error {
	var geminiKey, groqKey string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Gemini API Key").
				Description("https://aistudio.google.com/apikey").
				EchoMode(huh.EchoModePassword).
				Value(&geminiKey).
				Validate(required("Gemini API Key")),
			huh.NewInput().
				Title("Groq API Key (optional)").
				Description("https://console.groq.com/keys, used with provider: groq").
				EchoMode(huh.EchoModePassword).
				Value(&groqKey),
		),
	)

	if err := form.Run(); err != nil {
		return err
	}

	env["GEMINI_API_KEY"] = strings.TrimSpace(geminiKey)
	env["GROQ_API_KEY"] = strings.TrimSpace(groqKey)
	return nil
}

func configureGCP(ctx context.Context, env map[string]string) error {
	var setupGCP bool
	if err := huh.NewConfirm().
		Title("Setup Google Cloud?").
		Description("Optional: Vertex AI, saving songs to Cloud Storage, Secret Manager").
		Value(&setupGCP).
		Run(); err != nil {
		return err
	}

	if !setupGCP {
		return nil
	}

	project := getActiveProject()
	var bucket string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Google Cloud Project").
				Value(&project),
			huh.NewInput().
				Title("Cloud Storage bucket (optional)").
				Description("Set gcs.enabled: true in config.yaml to save songs there").
				Value(&bucket),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}

	project = strings.TrimSpace(project)
	bucket = strings.TrimSpace(bucket)
	env["GOOGLE_CLOUD_PROJECT"] = project
	env["GCS_BUCKET"] = bucket

	if project != "" && commandExists("gcloud") {
		if err := enableGCPAPIs(ctx, project); err != nil {
			fmt.Println(warnStyle.Render(fmt.Sprintf("API enablement failed: %v", err)))
		}
	} else if project != "" {
		fmt.Println(warnStyle.Render("gcloud CLI not found - enable APIs from https://console.cloud.google.com"))
	}

	return nil
}

func getActiveProject() string {
	if !commandExists("gcloud") {
		return ""
	}
	out, err := exec.Command("gcloud", "config", "get-value", "project").Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

func enableGCPAPIs(ctx context.Context, project string) error {
	apis := []string{
		"aiplatform.googleapis.com",
		"storage.googleapis.com",
		"secretmanager.googleapis.com",
	}

	err := runWithSpinner(ctx, "Enabling APIs", func() error {
		args := append([]string{"services", "enable"}, apis...)
		args = append(args, "--project", project)
		return runSetupCmd(ctx, "gcloud", args...)
	})
	if err != nil {
		return err
	}
	fmt.Println(successStyle.Render("✓ Enabled APIs"))
	return nil
}

var envOrder = []string{
	"GEMINI_API_KEY",
	"GROQ_API_KEY",
	"GOOGLE_CLOUD_PROJECT",
	"GCS_BUCKET",
}

// writeEnv writes the known keys in a stable order, skipping empty values.
func writeEnv(w io.Writer, env map[string]string) error {
	for _, key := range envOrder {
		if val, ok := env[key]; ok && val != "" {
			if _, err := fmt.Fprintf(w, "%s=%s\n", key, val); err != nil {
				return fmt.Errorf("write %s: %w", envFile, err)
			}
		}
	}
	return nil
}

func printNextSteps() {
	fmt.Println()
	fmt.Println(titleStyle.Render("Next steps:"))
	fmt.Println("  1. See the available choices: songcraft options")
	fmt.Println("  2. Run: songcraft generate -t \"your topic\"")
	fmt.Println("  3. Or just: songcraft generate")
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func commandExists(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

func runSetupCmd(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %s", err, stderr.String())
	}
	return nil
}
