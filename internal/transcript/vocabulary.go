package transcript

import (
	"regexp"
	"sort"
)

// corrections maps spoken/mis-transcribed variants of technical terms to
// their canonical written form. Applied only to final results; interim
// hypotheses are still being revised by the engine.
var corrections = map[string]string{
	"lang chain":        "LangChain",
	"langchain":         "LangChain",
	"lang graph":        "LangGraph",
	"langgraph":         "LangGraph",
	"lang smith":        "LangSmith",
	"langsmith":         "LangSmith",
	"chroma db":         "ChromaDB",
	"chromadb":          "ChromaDB",
	"chroma":            "Chroma",
	"pine cone":         "Pinecone",
	"pinecone":          "Pinecone",
	"open ai":           "OpenAI",
	"openai":            "OpenAI",
	"gpt 4":             "GPT-4",
	"gpt4":              "GPT-4",
	"gpt 4 oh":          "GPT-4o",
	"gpt for oh":        "GPT-4o",
	"fast api":          "FastAPI",
	"fastapi":           "FastAPI",
	"pi dantic":         "Pydantic",
	"pydantic":          "Pydantic",
	"state graph":       "StateGraph",
	"stategraph":        "StateGraph",
	"type dict":         "TypedDict",
	"typeddict":         "TypedDict",
	"hit l":             "HITL",
	"hitl":              "HITL",
	"human in the loop": "human-in-the-loop",
	"rag":               "RAG",
	"r a g":             "RAG",
	"llm":               "LLM",
	"l l m":             "LLM",
	"nlp":               "NLP",
	"n l p":             "NLP",
	"api":               "API",
	"a p i":             "API",
	"hugging face":      "Hugging Face",
	"huggingface":       "Hugging Face",
	"tensor flow":       "TensorFlow",
	"tensorflow":        "TensorFlow",
	"pie torch":         "PyTorch",
	"pytorch":           "PyTorch",
	"scikit learn":      "scikit-learn",
	"sklearn":           "scikit-learn",
}

// technicalVocabulary is fed to capabilities that accept phrase hints.
var technicalVocabulary = []string{
	// AI/ML frameworks
	"LangChain", "LangGraph", "LangSmith", "OpenAI", "GPT", "GPT-4", "GPT-4o",
	"TensorFlow", "PyTorch", "Keras", "scikit-learn", "Hugging Face",
	"transformers", "BERT", "LLAMA", "Claude", "Anthropic", "Gemini",

	// Vector databases
	"ChromaDB", "Chroma", "Pinecone", "Weaviate", "Milvus", "FAISS", "Qdrant",
	"embeddings", "vector store", "vector database", "similarity search",

	// LangChain/LangGraph specific
	"StateGraph", "TypedDict", "checkpointer", "HITL", "human-in-the-loop",
	"tool calling", "function calling", "agent", "multi-agent", "supervisor",
	"RAG", "retrieval augmented generation", "agentic", "workflow",

	// Python/programming
	"FastAPI", "Pydantic", "asyncio", "async", "await", "uvicorn", "ASGI",
	"API", "REST", "GraphQL", "WebSocket", "HTTP", "endpoint", "middleware",
	"dependency injection", "decorator", "generator", "iterator",

	// General tech
	"machine learning", "deep learning", "neural network", "NLP",
	"natural language processing", "large language model", "LLM",
	"fine-tuning", "prompt engineering", "context window", "tokens",
	"inference", "training", "backpropagation", "gradient descent",
}

// correction is one precompiled rule, applied in order.
type correction struct {
	pattern     *regexp.Regexp
	replacement string
}

// rules holds the correction table in application order: longer variants
// first, so a multi-word phrase always wins over its component words
// ("chroma db" must become ChromaDB, never "Chroma db"). Ties break
// alphabetically to keep the order deterministic.
var rules = buildRules()

func buildRules() []correction {
	variants := make([]string, 0, len(corrections))
	for v := range corrections {
		variants = append(variants, v)
	}
	sort.Slice(variants, func(i, j int) bool {
		if len(variants[i]) != len(variants[j]) {
			return len(variants[i]) > len(variants[j])
		}
		return variants[i] < variants[j]
	})

	out := make([]correction, 0, len(variants))
	for _, v := range variants {
		// Whole-word, case-insensitive: "chainsaw" must never match "chain".
		re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(v) + `\b`)
		out = append(out, correction{pattern: re, replacement: corrections[v]})
	}
	return out
}

// Correct rewrites known technical-term variants in text to their canonical
// form. Idempotent: canonical forms map back to themselves.
func Correct(text string) string {
	corrected, _ := correct(text)
	return corrected
}

// correct applies the rules in order, reporting how many replacements were
// actually made (replacements that change nothing are not counted).
func correct(text string) (string, int) {
	applied := 0
	for _, rule := range rules {
		text = rule.pattern.ReplaceAllStringFunc(text, func(match string) string {
			if match != rule.replacement {
				applied++
			}
			return rule.replacement
		})
	}
	return text, applied
}

// PhraseHints returns the technical vocabulary to bias recognition with.
func PhraseHints() []string {
	hints := make([]string, len(technicalVocabulary))
	copy(hints, technicalVocabulary)
	return hints
}
