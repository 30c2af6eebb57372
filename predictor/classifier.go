package predictor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

// defaultInputName matches the tensor name the training pipeline exported.
// It is only used when the artifact does not report one.
const defaultInputName = "input"

// Scorer is the minimal classifier surface required by the service layer.
type Scorer interface {
	Score(ctx context.Context, vec []float32) (float64, error)
	InputWidth() int
	ModelID() string
	Close() error
}

// ClassifierConfig locates the scoring artifact and the onnxruntime shared
// library the binding loads.
type ClassifierConfig struct {
	ModelPath  string
	OrtLibrary string
	ModelID    string
}

var (
	ortInitOnce sync.Once
	ortInitErr  error
)

// initRuntime prepares the process-wide onnxruntime environment exactly
// once. Later calls observe the first outcome, so a different library path
// cannot re-initialize the runtime.
func initRuntime(libraryPath string) error {
	ortInitOnce.Do(func() {
		if libraryPath != "" {
			ort.SetSharedLibraryPath(libraryPath)
		}
		if !ort.IsInitialized() {
			ortInitErr = ort.InitializeEnvironment()
		}
	})
	return ortInitErr
}

// OrtClassifier scores feature vectors through an onnxruntime session over
// the pre-trained artifact. The session is the only cached state; scoring
// itself is stateless per call.
type OrtClassifier struct {
	session    *ort.DynamicAdvancedSession
	modelID    string
	inputName  string
	outputName string
	width      int
}

// NewOrtClassifier loads the artifact and discovers its tensor layout.
func NewOrtClassifier(cfg ClassifierConfig) (*OrtClassifier, error) {
	if cfg.ModelID == "" && cfg.ModelPath != "" {
		cfg.ModelID = filepath.Base(cfg.ModelPath)
	}
	if _, err := os.Stat(cfg.ModelPath); err != nil {
		return nil, NewArtifactLoadError(cfg.ModelPath, err)
	}
	if err := initRuntime(cfg.OrtLibrary); err != nil {
		return nil, NewArtifactLoadError(cfg.ModelPath, fmt.Errorf("initialize onnxruntime: %w", err))
	}
	inputs, outputs, err := ort.GetInputOutputInfo(cfg.ModelPath)
	if err != nil {
		return nil, NewArtifactLoadError(cfg.ModelPath, fmt.Errorf("inspect model: %w", err))
	}
	if len(inputs) == 0 || len(outputs) == 0 {
		return nil, NewArtifactLoadError(cfg.ModelPath, errors.New("model declares no input or output tensors"))
	}
	inputName := inputs[0].Name
	if inputName == "" {
		inputName = defaultInputName
	}
	session, err := ort.NewDynamicAdvancedSession(cfg.ModelPath, []string{inputName}, []string{outputs[0].Name}, nil)
	if err != nil {
		return nil, NewArtifactLoadError(cfg.ModelPath, fmt.Errorf("open session: %w", err))
	}
	return &OrtClassifier{
		session:    session,
		modelID:    cfg.ModelID,
		inputName:  inputName,
		outputName: outputs[0].Name,
		width:      staticWidth(inputs[0].Dimensions),
	}, nil
}

// staticWidth extracts the declared feature count from the input dimensions.
// Dynamic dimensions are reported as 0 and enforced by onnxruntime instead.
func staticWidth(dims ort.Shape) int {
	if len(dims) == 0 {
		return 0
	}
	last := dims[len(dims)-1]
	if last <= 0 {
		return 0
	}
	return int(last)
}

// InputWidth returns the feature count the artifact declares, or 0 when the
// model leaves the width dynamic.
func (c *OrtClassifier) InputWidth() int {
	return c.width
}

// ModelID returns the identifier reported in logs.
func (c *OrtClassifier) ModelID() string {
	return c.modelID
}

// Score runs one vector through the session and returns the first element of
// the first output tensor as the probability.
func (c *OrtClassifier) Score(ctx context.Context, vec []float32) (float64, error) {
	if c == nil || c.session == nil {
		return 0, errors.New("classifier is not initialized")
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if c.width > 0 && len(vec) != c.width {
		return 0, NewSchemaMismatchError(c.width, len(vec))
	}
	input, err := ort.NewTensor(ort.NewShape(1, int64(len(vec))), vec)
	if err != nil {
		return 0, fmt.Errorf("create input tensor: %w", err)
	}
	defer input.Destroy()
	outputs := []ort.Value{nil}
	if err := c.session.Run([]ort.Value{input}, outputs); err != nil {
		return 0, fmt.Errorf("run scoring session: %w", err)
	}
	out, ok := outputs[0].(*ort.Tensor[float32])
	if !ok {
		if outputs[0] != nil {
			_ = outputs[0].Destroy()
		}
		return 0, fmt.Errorf("unexpected output tensor type %T", outputs[0])
	}
	defer out.Destroy()
	data := out.GetData()
	if len(data) == 0 {
		return 0, errors.New("empty output tensor")
	}
	return float64(data[0]), nil
}

// Close releases the session. The runtime environment stays initialized for
// the life of the process.
func (c *OrtClassifier) Close() error {
	if c == nil || c.session == nil {
		return nil
	}
	err := c.session.Destroy()
	c.session = nil
	return err
}
