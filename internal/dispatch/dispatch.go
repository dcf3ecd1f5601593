package dispatch

import (
	"bufio"
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	batchv1 "k8s.io/api/batch/v1"
	apiv1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/client-go/util/homedir"
	"k8s.io/utils/pointer"

	"github.com/review-io-git/review-io/pkg/shared/config"
)

const (
	defaultJobTTL       = 1 * time.Hour
	defaultPollInterval = 5 * time.Second
	defaultWaitTimeout  = 30 * time.Minute
)

// Dispatcher schedules review check runs as Kubernetes jobs.
type Dispatcher struct {
	cfg    *config.Config
	client kubernetes.Interface
	logger hclog.Logger
}

// JobSpec describes one dispatched run.
type JobSpec struct {
	Command []string          // Full reviewio command line to run in the container
	Env     map[string]string // Plain environment variables passed to the container
}

// New creates a Dispatcher connected to the cluster described by the
// configuration: in-cluster when requested, otherwise via kubeconfig with the
// usual ~/.kube/config fallback.
func New(cfg *config.Config, logger hclog.Logger) (*Dispatcher, error) {
	restConfig, err := buildRESTConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build kubernetes client configuration: %w", err)
	}

	clientset, err := kubernetes.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create kubernetes client: %w", err)
	}

	return NewWithClient(cfg, clientset, logger), nil
}

// NewWithClient creates a Dispatcher on an existing kubernetes client.
func NewWithClient(cfg *config.Config, client kubernetes.Interface, logger hclog.Logger) *Dispatcher {
	return &Dispatcher{
		cfg:    cfg,
		client: client,
		logger: logger,
	}
}

func buildRESTConfig(cfg *config.Config) (*rest.Config, error) {
	if cfg.Dispatch.InCluster {
		return rest.InClusterConfig()
	}

	kubeconfig := cfg.Dispatch.Kubeconfig
	if kubeconfig == "" {
		kubeconfig = filepath.Join(homedir.HomeDir(), ".kube", "config")
	}
	return clientcmd.BuildConfigFromFlags("", kubeconfig)
}

// namespace returns the configured job namespace.
func (d *Dispatcher) namespace() string {
	return config.SetThen(d.cfg.Dispatch.Namespace, apiv1.NamespaceDefault)
}

// BuildJob assembles the batch job object for one dispatched run.
func (d *Dispatcher) BuildJob(spec JobSpec) *batchv1.Job {
	jobID := uuid.New().String()
	jobName := fmt.Sprintf("job-%s", jobID)
	ttl := config.SetThen(d.cfg.Dispatch.JobTTL, defaultJobTTL)

	return &batchv1.Job{
		ObjectMeta: metav1.ObjectMeta{
			Name:      jobName,
			Namespace: d.namespace(),
		},
		Spec: batchv1.JobSpec{
			Parallelism:             pointer.Int32(1),
			Completions:             pointer.Int32(1),
			BackoffLimit:            pointer.Int32(0),
			TTLSecondsAfterFinished: pointer.Int32(int32(ttl.Seconds())),
			Template: apiv1.PodTemplateSpec{
				Spec: apiv1.PodSpec{
					Containers: []apiv1.Container{
						{
							Name:    fmt.Sprintf("reviewio-%s", jobID),
							Image:   d.cfg.Dispatch.Image,
							Command: spec.Command,
							Env:     d.buildEnv(spec.Env),
						},
					},
					RestartPolicy: apiv1.RestartPolicyNever,
				},
			},
		},
	}
}

// buildEnv merges plain env vars with credential references from the
// configured secret. Plain vars are emitted in a stable order.
func (d *Dispatcher) buildEnv(plain map[string]string) []apiv1.EnvVar {
	var env []apiv1.EnvVar

	names := make([]string, 0, len(plain))
	for name := range plain {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		env = append(env, apiv1.EnvVar{Name: name, Value: plain[name]})
	}

	if secret := d.cfg.Dispatch.SecretName; secret != "" {
		for _, key := range []string{"AWS_ACCESS_KEY_ID", "AWS_SECRET_ACCESS_KEY"} {
			env = append(env, apiv1.EnvVar{
				Name: key,
				ValueFrom: &apiv1.EnvVarSource{
					SecretKeyRef: &apiv1.SecretKeySelector{
						LocalObjectReference: apiv1.LocalObjectReference{Name: secret},
						Key:                  strings.ToLower(key),
						Optional:             pointer.Bool(false),
					},
				},
			})
		}
	}

	return env
}

// Submit creates the job on the cluster.
func (d *Dispatcher) Submit(ctx context.Context, job *batchv1.Job) (*batchv1.Job, error) {
	d.logger.Info("submitting kubernetes job", "job", job.Name, "namespace", job.Namespace, "image", d.cfg.Dispatch.Image)

	created, err := d.client.BatchV1().Jobs(job.Namespace).Create(ctx, job, metav1.CreateOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to create job %q: %w", job.Name, err)
	}
	return created, nil
}

// Wait polls the job until it finishes. A failed job is reported as an error.
func (d *Dispatcher) Wait(ctx context.Context, jobName string) error {
	d.logger.Info("waiting for job completion", "job", jobName)

	interval := config.SetThen(d.cfg.Dispatch.PollInterval, defaultPollInterval)
	timeout := config.SetThen(d.cfg.Dispatch.WaitTimeout, defaultWaitTimeout)

	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		job, err := d.client.BatchV1().Jobs(d.namespace()).Get(waitCtx, jobName, metav1.GetOptions{})
		if err != nil {
			return fmt.Errorf("failed to get job %q: %w", jobName, err)
		}

		switch {
		case job.Status.Succeeded > 0:
			d.logger.Info("job succeeded", "job", jobName)
			return nil
		case job.Status.Failed > 0:
			return fmt.Errorf("job %q failed", jobName)
		}

		select {
		case <-waitCtx.Done():
			return fmt.Errorf("timed out waiting for job %q: %w", jobName, waitCtx.Err())
		case <-ticker.C:
		}
	}
}

// StreamPodLogs copies the logs of the job's pods to the logger, one line at
// a time. Pods are matched by the job-name label the job controller sets.
func (d *Dispatcher) StreamPodLogs(ctx context.Context, jobName string) error {
	pods, err := d.client.CoreV1().Pods(d.namespace()).List(ctx, metav1.ListOptions{
		LabelSelector: fmt.Sprintf("job-name=%s", jobName),
	})
	if err != nil {
		return fmt.Errorf("failed to list pods of job %q: %w", jobName, err)
	}

	for _, pod := range pods.Items {
		stream, err := d.client.CoreV1().Pods(d.namespace()).GetLogs(pod.Name, &apiv1.PodLogOptions{}).Stream(ctx)
		if err != nil {
			d.logger.Warn("failed to read pod logs", "pod", pod.Name, "error", err)
			continue
		}

		scanner := bufio.NewScanner(stream)
		for scanner.Scan() {
			d.logger.Info(scanner.Text(), "pod", pod.Name)
		}
		stream.Close()
	}

	return nil
}

// Run submits one dispatched run and optionally waits for it, streaming pod
// logs after completion. It returns the created job name.
func (d *Dispatcher) Run(ctx context.Context, spec JobSpec, wait bool) (string, error) {
	job, err := d.Submit(ctx, d.BuildJob(spec))
	if err != nil {
		return "", err
	}

	if !wait {
		return job.Name, nil
	}

	waitErr := d.Wait(ctx, job.Name)
	if err := d.StreamPodLogs(ctx, job.Name); err != nil {
		d.logger.Warn("failed to stream job logs", "job", job.Name, "error", err)
	}
	return job.Name, waitErr
}
