/*
SPDX-License-Identifier: Apache-2.0

Copyright Contributors to the Submariner project.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package bootstrap

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	awsrds "github.com/aws/aws-sdk-go-v2/service/rds"
	rdstypes "github.com/aws/aws-sdk-go-v2/service/rds/types"
	"github.com/aws/smithy-go"
	"github.com/pkg/errors"
	"github.com/submariner-io/rds-e2e/pkg/accessor"
	"github.com/submariner-io/rds-e2e/pkg/fixture"
	"github.com/submariner-io/rds-e2e/pkg/log"
	"github.com/submariner-io/rds-e2e/pkg/matcher"
	"github.com/submariner-io/rds-e2e/pkg/poll"
	"k8s.io/utils/clock"
	logf "sigs.k8s.io/controller-runtime/pkg/log"
)

const (
	VPCCIDR        = "10.0.0.0/16"
	Subnet1CIDR    = "10.0.0.0/24"
	Subnet2CIDR    = "10.0.1.0/24"
	SubnetGroupTag = "ack-test-subnet-group"

	stateAvailable = string(ec2types.VpcStateAvailable)
	kindVPC        = "VPC"
	kindSubnet     = "Subnet"
)

var logger = log.Logger{Logger: logf.Log.WithName("Bootstrap")}

// EC2API is the subset of the EC2 client used to manage the test network.
type EC2API interface {
	CreateVpc(ctx context.Context, in *ec2.CreateVpcInput, optFns ...func(*ec2.Options)) (*ec2.CreateVpcOutput, error)
	DescribeVpcs(ctx context.Context, in *ec2.DescribeVpcsInput, optFns ...func(*ec2.Options)) (*ec2.DescribeVpcsOutput, error)
	DeleteVpc(ctx context.Context, in *ec2.DeleteVpcInput, optFns ...func(*ec2.Options)) (*ec2.DeleteVpcOutput, error)
	CreateSubnet(ctx context.Context, in *ec2.CreateSubnetInput, optFns ...func(*ec2.Options)) (*ec2.CreateSubnetOutput, error)
	DescribeSubnets(ctx context.Context, in *ec2.DescribeSubnetsInput, optFns ...func(*ec2.Options),
	) (*ec2.DescribeSubnetsOutput, error)
	DeleteSubnet(ctx context.Context, in *ec2.DeleteSubnetInput, optFns ...func(*ec2.Options)) (*ec2.DeleteSubnetOutput, error)
}

// RDSAPI is the subset of the RDS client used to manage the shared DB subnet group.
type RDSAPI interface {
	CreateDBSubnetGroup(ctx context.Context, in *awsrds.CreateDBSubnetGroupInput, optFns ...func(*awsrds.Options),
	) (*awsrds.CreateDBSubnetGroupOutput, error)
	DeleteDBSubnetGroup(ctx context.Context, in *awsrds.DeleteDBSubnetGroupInput, optFns ...func(*awsrds.Options),
	) (*awsrds.DeleteDBSubnetGroupOutput, error)
}

var (
	_ EC2API = &ec2.Client{}
	_ RDSAPI = &awsrds.Client{}
)

type Bootstrapper struct {
	EC2    EC2API
	RDS    RDSAPI
	Region string
	// Timeout bounds each wait for a VPC or subnet to become available.
	Timeout  time.Duration
	Interval time.Duration
	Clock    clock.Clock
}

func New(ec2API EC2API, rdsAPI RDSAPI, region string) *Bootstrapper {
	return &Bootstrapper{
		EC2:      ec2API,
		RDS:      rdsAPI,
		Region:   region,
		Timeout:  2 * time.Minute,
		Interval: 3 * time.Second,
		Clock:    clock.RealClock{},
	}
}

// Up creates a VPC with two subnets in different availability zones and a DB subnet group spanning them.
// Resources created before a failure are returned so the caller can tear them down.
func (b *Bootstrapper) Up(ctx context.Context) (*Resources, error) {
	r := &Resources{Region: b.Region}

	var err error

	r.VPCID, err = b.createVPC(ctx)
	if err != nil {
		return r, err
	}

	r.PublicSubnet1, err = b.createSubnet(ctx, r.VPCID, b.Region+"a", Subnet1CIDR)
	if err != nil {
		return r, err
	}

	r.PublicSubnet2, err = b.createSubnet(ctx, r.VPCID, b.Region+"b", Subnet2CIDR)
	if err != nil {
		return r, err
	}

	name := fixture.RandomSuffixName(SubnetGroupTag, 30)

	_, err = b.RDS.CreateDBSubnetGroup(ctx, &awsrds.CreateDBSubnetGroupInput{
		DBSubnetGroupName:        aws.String(name),
		DBSubnetGroupDescription: aws.String("DBSubnetGroup for e2e testing of the RDS controller"),
		SubnetIds:                []string{r.PublicSubnet1, r.PublicSubnet2},
	})
	if err != nil {
		return r, errors.Wrapf(err, "error creating DB subnet group %q", name)
	}

	r.SubnetGroupName = name

	logger.Infof("Created DBSubnetGroup %s", name)

	return r, nil
}

func (b *Bootstrapper) createVPC(ctx context.Context) (string, error) {
	logger.V(log.DEBUG).Infof("Creating VPC with CIDR %s", VPCCIDR)

	out, err := b.EC2.CreateVpc(ctx, &ec2.CreateVpcInput{CidrBlock: aws.String(VPCCIDR)})
	if err != nil {
		return "", errors.Wrap(err, "error creating VPC")
	}

	id := aws.ToString(out.Vpc.VpcId)

	err = b.waitAvailable(ctx, kindVPC, id, func(ctx context.Context) (accessor.Record, error) {
		out, err := b.EC2.DescribeVpcs(ctx, &ec2.DescribeVpcsInput{VpcIds: []string{id}})
		if err != nil || len(out.Vpcs) != 1 {
			return nil, errors.Wrapf(err, "error describing VPC %q", id)
		}

		return accessor.Record{"State": string(out.Vpcs[0].State)}, nil
	})
	if err != nil {
		return id, err
	}

	logger.Infof("Created VPC %s", id)

	return id, nil
}

func (b *Bootstrapper) createSubnet(ctx context.Context, vpcID, zone, cidr string) (string, error) {
	logger.V(log.DEBUG).Infof("Creating subnet with CIDR %s in AZ %s", cidr, zone)

	out, err := b.EC2.CreateSubnet(ctx, &ec2.CreateSubnetInput{
		VpcId:            aws.String(vpcID),
		AvailabilityZone: aws.String(zone),
		CidrBlock:        aws.String(cidr),
	})
	if err != nil {
		return "", errors.Wrapf(err, "error creating subnet in AZ %s", zone)
	}

	id := aws.ToString(out.Subnet.SubnetId)

	err = b.waitAvailable(ctx, kindSubnet, id, func(ctx context.Context) (accessor.Record, error) {
		out, err := b.EC2.DescribeSubnets(ctx, &ec2.DescribeSubnetsInput{SubnetIds: []string{id}})
		if err != nil || len(out.Subnets) != 1 {
			return nil, errors.Wrapf(err, "error describing subnet %q", id)
		}

		return accessor.Record{"State": string(out.Subnets[0].State)}, nil
	})
	if err != nil {
		return id, err
	}

	logger.Infof("Created VPC Subnet %s in AZ %s", id, zone)

	return id, nil
}

func (b *Bootstrapper) waitAvailable(ctx context.Context, kind, id string, fetch poll.FetchFunc) error {
	_, err := poll.Poll(ctx, poll.Options{
		Kind:     kind,
		ID:       id,
		Timeout:  b.Timeout,
		Interval: b.Interval,
		Clock:    b.Clock,
	}, fetch, matcher.Equals("State", stateAvailable))

	return err
}

// Down deletes the bootstrapped resources in reverse order. Failures are logged and do not stop the teardown;
// the returned error reports whether anything other than an already-deleted resource failed.
func (b *Bootstrapper) Down(ctx context.Context, r *Resources) error {
	failed := 0

	step := func(desc, id string, f func() error) {
		if id == "" {
			return
		}

		err := f()

		switch {
		case err == nil:
			logger.Infof("Deleted %s %s", desc, id)
		case isNotFound(err):
			logger.Infof("%s %s was already deleted", desc, id)
		default:
			failed++

			logger.Errorf(err, "Unable to delete %s %s", desc, id)
		}
	}

	step("DBSubnetGroup", r.SubnetGroupName, func() error {
		_, err := b.RDS.DeleteDBSubnetGroup(ctx, &awsrds.DeleteDBSubnetGroupInput{DBSubnetGroupName: aws.String(r.SubnetGroupName)})
		return err
	})

	for _, subnet := range []string{r.PublicSubnet1, r.PublicSubnet2} {
		step("VPC Subnet", subnet, func() error {
			_, err := b.EC2.DeleteSubnet(ctx, &ec2.DeleteSubnetInput{SubnetId: aws.String(subnet)})
			return err
		})
	}

	step("VPC", r.VPCID, func() error {
		_, err := b.EC2.DeleteVpc(ctx, &ec2.DeleteVpcInput{VpcId: aws.String(r.VPCID)})
		return err
	})

	if failed > 0 {
		return errors.Errorf("%d bootstrap resource(s) could not be deleted", failed)
	}

	return nil
}

var notFoundCodes = map[string]bool{
	"InvalidVpcID.NotFound":      true,
	"InvalidSubnetID.NotFound":   true,
	"DBSubnetGroupNotFoundFault": true,
}

func isNotFound(err error) bool {
	var notFound *rdstypes.DBSubnetGroupNotFoundFault
	if errors.As(err, &notFound) {
		return true
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return notFoundCodes[apiErr.ErrorCode()]
	}

	return false
}
