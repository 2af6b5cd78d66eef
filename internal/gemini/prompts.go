package gemini

import (
	"fmt"
	"strings"
)

// Default prompts, in French like the product. Admins may override each
// of them through the global settings mapping; an override replaces the
// instruction part while the dynamic data (words, texts, lengths) is
// always appended by the builders below.

const defaultExtractionPrompt = "Extrais tous les mots de cette image. " +
	"Retourne uniquement les mots séparés par des virgules, sans numérotation, " +
	"sans titres, sans étiquettes de catégorie et sans formatage supplémentaire. " +
	"Si l'image contient une liste de mots pour une dictée, extrais chaque mot individuellement."

const defaultCompositionPrompt = "Écris une dictée en français sous forme de texte continu. " +
	"Le texte doit utiliser chacun des mots fournis au moins une fois. " +
	"Pas de titre, pas de mise en forme markdown, pas de liste : uniquement du texte brut."

const simplifiedCompositionPrompt = "Écris un court texte simple en français qui utilise les mots fournis. " +
	"Texte brut uniquement."

const defaultAnalysisPrompt = "Tu es un correcteur de dictées. Compare le texte de référence et le texte de l'élève. " +
	"Réponds STRICTEMENT avec un seul objet JSON, sans aucun texte autour, au format : " +
	`{"errors":[{"type":"orthographe|grammaire|conjugaison|accord|ponctuation|autre",` +
	`"original":"mot attendu","user":"mot écrit","explanation":"explication courte",` +
	`"position":1}],"totalWords":0,"correctWords":0,"feedback":"commentaire encourageant"}. ` +
	"position est l'index (à partir de 1) du mot dans le texte de référence. " +
	"totalWords est le nombre de mots du texte de référence et correctWords le nombre de mots corrects."

// defaultFeedback substitutes for a missing feedback field in the
// analysis response.
const defaultFeedback = "Continue comme ça, chaque dictée te fait progresser !"

func buildExtractionPrompt(custom string) string {
	if strings.TrimSpace(custom) != "" {
		return custom
	}
	return defaultExtractionPrompt
}

func buildCompositionPrompt(words []string, targetLength int, custom string) string {
	instruction := defaultCompositionPrompt
	if strings.TrimSpace(custom) != "" {
		instruction = custom
	}
	return fmt.Sprintf("%s\n\nLongueur cible : environ %d mots.\nMots à utiliser : %s",
		instruction, targetLength, strings.Join(words, ", "))
}

func buildSimplifiedCompositionPrompt(words []string, targetLength int) string {
	return fmt.Sprintf("%s\n\nLongueur cible : environ %d mots.\nMots : %s",
		simplifiedCompositionPrompt, targetLength, strings.Join(words, ", "))
}

func buildAnalysisPrompt(reference, candidate, custom string) string {
	instruction := defaultAnalysisPrompt
	if strings.TrimSpace(custom) != "" {
		instruction = custom
	}
	return fmt.Sprintf("%s\n\nTexte de référence :\n%s\n\nTexte de l'élève :\n%s",
		instruction, reference, candidate)
}
