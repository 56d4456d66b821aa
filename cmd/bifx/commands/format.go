package commands

import (
	"fmt"
)

// Shared console formatting so every command prints the same way.

func printSeparator() {
	fmt.Println("───────────────────────────────────────────────────────────")
}

func printDoubleSeparator() {
	fmt.Println("═══════════════════════════════════════════════════════════")
}

func printHeader(title string) {
	fmt.Println()
	printDoubleSeparator()
	fmt.Printf("  %s\n", title)
	printSeparator()
}

func printKeyValue(key, value string) {
	fmt.Printf("   %-22s : %s\n", key, value)
}

func printSuccess(message string) {
	fmt.Printf("✅ %s\n", message)
}

func printWarning(message string) {
	fmt.Printf("⚠️  %s\n", message)
}
